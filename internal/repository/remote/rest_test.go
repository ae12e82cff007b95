package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
)

func TestRestStore_FindUserByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/users", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "eq.asha@example.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]restUser{{
			ID:        "u1",
			Name:      "Asha",
			Email:     "asha@example.com",
			Role:      "employee",
			CreatedAt: "2024-03-01T08:00:00Z",
		}})
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, "test-key")
	found, err := store.FindUserByEmail(context.Background(), "Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	assert.Equal(t, user.RoleEmployee, found.Role)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), found.CreatedAt)
}

func TestRestStore_FindUserByEmail_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, "test-key")
	_, err := store.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRestStore_ListAttendanceOrdering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/attendance", r.URL.Path)
		assert.Equal(t, "eq.Asha", r.URL.Query().Get("user_name"))
		assert.Equal(t, "time.desc", r.URL.Query().Get("order"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]restRecord{
			{ID: "r2", UserName: "Asha", Type: "checkout", Time: "2024-03-01T17:00:00Z"},
			{ID: "r1", UserName: "Asha", Type: "checkin", Time: "2024-03-01T09:00:00Z"},
		})
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, "test-key")
	rows, err := store.ListAttendance(context.Background(), "Asha")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "r2", rows[0].ID)
	assert.Equal(t, attendance.TypeCheckOut, rows[0].Type)
}

func TestRestStore_ErrorBodyMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"relation \"attendance\" does not exist"}`))
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, "test-key")
	err := store.RecordAttendance(context.Background(), attendance.Record{ID: "r1"})
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRestStore_ConflictMapsToEmailExists(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method == http.MethodGet {
			// UserExists probe sees no row.
			w.Write([]byte("[]"))
			return
		}
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, "test-key")
	err := store.AddUser(context.Background(), user.User{ID: "u1", Email: "asha@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailExists)
	assert.Equal(t, 2, calls)
}
