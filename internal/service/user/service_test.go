package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/kv"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
	attendanceService "github.com/tronxlabs/attendance-backend-go/internal/service/attendance"
)

type staticStore struct {
	users []user.User
}

func (s *staticStore) ListUsers(ctx context.Context) ([]user.User, error) { return s.users, nil }
func (s *staticStore) AddUser(ctx context.Context, u user.User) error     { return nil }
func (s *staticStore) UserExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (s *staticStore) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (s *staticStore) FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (s *staticStore) RecordAttendance(ctx context.Context, record attendance.Record) error {
	return nil
}
func (s *staticStore) ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error) {
	return nil, nil
}

type stubLocator struct{}

func (stubLocator) Current(ctx context.Context) (geo.Position, error) {
	return geo.Position{}, geo.ErrLocationUnavailable
}

type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) string { return "" }

func TestRoster_DerivesStatusPerUser(t *testing.T) {
	store := &staticStore{users: []user.User{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: user.RoleEmployee},
		{ID: "u2", Name: "Ravi", Email: "ravi@example.com", Role: user.RoleEmployee},
		{ID: "u3", Name: "Meera", Email: "meera@example.com", Role: user.RoleAdmin},
	}}

	cache := localcache.NewStore(kv.NewMemoryStore())
	now := time.Now().UTC()
	require.NoError(t, cache.SetAttendance([]attendance.Record{
		{ID: "r1", UserID: "u1", Type: attendance.TypeCheckIn, Time: now.Add(-time.Hour)},
		{ID: "r2", UserID: "u2", Type: attendance.TypeCheckIn, Time: now.Add(-2 * time.Hour)},
		{ID: "r3", UserID: "u2", Type: attendance.TypeCheckOut, Time: now.Add(-time.Hour)},
	}))

	attSvc := attendanceService.NewAttendanceService(cache, nil, stubLocator{}, stubGeocoder{})
	svc := NewUserService(store, attSvc)

	roster, err := svc.Roster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 3)

	byID := map[string]string{}
	for _, entry := range roster {
		byID[entry.User.ID] = entry.Status
	}
	assert.Equal(t, attendance.StatusWorking, byID["u1"])
	assert.Equal(t, attendance.StatusNotWorking, byID["u2"])
	assert.Equal(t, attendance.StatusNotWorking, byID["u3"])
}

func TestGetByID(t *testing.T) {
	store := &staticStore{users: []user.User{
		{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: user.RoleEmployee},
	}}
	cache := localcache.NewStore(kv.NewMemoryStore())
	attSvc := attendanceService.NewAttendanceService(cache, nil, stubLocator{}, stubGeocoder{})
	svc := NewUserService(store, attSvc)

	found, err := svc.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Asha", found.Name)

	_, err = svc.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
