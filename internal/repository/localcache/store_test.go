package localcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/kv"
)

func TestStore_AttendanceDefaultsEmpty(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	assert.Empty(t, store.Attendance())
}

func TestStore_MalformedEntriesDegradeToEmpty(t *testing.T) {
	kvStore := kv.NewMemoryStore()
	require.NoError(t, kvStore.Set("attendance_v5", []byte("{corrupt")))
	require.NoError(t, kvStore.Set("session_v5", []byte("also corrupt")))

	store := NewStore(kvStore)
	assert.Empty(t, store.Attendance())
	assert.Equal(t, Session{}, store.Session())
}

func TestStore_AppendPreservesCallOrder(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())

	first := attendance.Record{ID: "r1", UserID: "u1", Type: attendance.TypeCheckIn, Time: time.Now()}
	second := attendance.Record{ID: "r2", UserID: "u1", Type: attendance.TypeCheckOut, Time: time.Now().Add(time.Minute)}
	require.NoError(t, store.AppendAttendance(first))
	require.NoError(t, store.AppendAttendance(second))

	rows := store.Attendance()
	require.Len(t, rows, 2)
	assert.Equal(t, "r1", rows[0].ID)
	assert.Equal(t, "r2", rows[1].ID)
}

func TestStore_LoadSaveReloadIsIdempotent(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())

	rows := []attendance.Record{
		{ID: "r1", UserID: "u1", UserName: "Asha", Type: attendance.TypeCheckIn,
			Time: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), Lat: 12.97, Lng: 77.59, Address: "MG Road"},
		{ID: "r2", UserID: "u1", UserName: "Asha", Type: attendance.TypeCheckOut,
			Time: time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC), Lat: 12.97, Lng: 77.59},
	}
	require.NoError(t, store.SetAttendance(rows))

	loaded := store.Attendance()
	require.NoError(t, store.SetAttendance(loaded))
	assert.Equal(t, loaded, store.Attendance())
}

func TestStore_SessionLifecycle(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	assert.Equal(t, Session{}, store.Session())

	require.NoError(t, store.SetSession(Session{Type: "employee", UserID: "u1"}))
	assert.Equal(t, Session{Type: "employee", UserID: "u1"}, store.Session())

	require.NoError(t, store.ClearSession())
	assert.Equal(t, Session{}, store.Session())
}

func TestStore_ResetClearsAttendanceAndSession(t *testing.T) {
	store := NewStore(kv.NewMemoryStore())
	require.NoError(t, store.AppendAttendance(attendance.Record{ID: "r1", UserID: "u1"}))
	require.NoError(t, store.SetSession(Session{Type: "admin", UserID: "u2"}))

	require.NoError(t, store.Reset())
	assert.Empty(t, store.Attendance())
	assert.Equal(t, Session{}, store.Session())
}
