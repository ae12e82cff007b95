package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/kv"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
)

type fakeLocator struct {
	pos   geo.Position
	err   error
	calls int
}

func (f *fakeLocator) Current(ctx context.Context) (geo.Position, error) {
	f.calls++
	return f.pos, f.err
}

type fakeGeocoder struct {
	address string
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	return f.address
}

type fakeRemote struct {
	records []attendance.Record
	fail    bool
}

func (f *fakeRemote) ListUsers(ctx context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeRemote) AddUser(ctx context.Context, u user.User) error     { return nil }
func (f *fakeRemote) UserExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (f *fakeRemote) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (f *fakeRemote) FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}
func (f *fakeRemote) RecordAttendance(ctx context.Context, record attendance.Record) error {
	if f.fail {
		return errors.New("connection refused")
	}
	f.records = append(f.records, record)
	return nil
}
func (f *fakeRemote) ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error) {
	return f.records, nil
}

func newTestService(remote *fakeRemote, locator *fakeLocator) (attendance.AttendanceService, *localcache.Store) {
	cache := localcache.NewStore(kv.NewMemoryStore())
	if locator == nil {
		locator = &fakeLocator{pos: geo.Position{Lat: 12.97, Lng: 77.59}}
	}
	geocoder := &fakeGeocoder{address: "MG Road, Bengaluru"}
	if remote == nil {
		return NewAttendanceService(cache, nil, locator, geocoder), cache
	}
	return NewAttendanceService(cache, remote, locator, geocoder), cache
}

func TestLatestStatusFor_NoRecords(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	result := svc.LatestStatusFor(context.Background(), "u1")
	assert.Equal(t, attendance.StatusNotWorking, result.Status)
	assert.Nil(t, result.Latest)
}

func TestCreate_CheckInThenStatusIsWorking(t *testing.T) {
	svc, cache := newTestService(nil, nil)
	ctx := context.Background()

	result, err := svc.Create(ctx, attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1", UserName: "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.97, result.Record.Lat)
	assert.Equal(t, 77.59, result.Record.Lng)
	assert.Equal(t, "MG Road, Bengaluru", result.Record.Address)
	assert.NotEmpty(t, result.Record.ID)

	status := svc.LatestStatusFor(ctx, "u1")
	assert.Equal(t, attendance.StatusWorking, status.Status)
	require.NotNil(t, status.Latest)
	assert.Equal(t, attendance.TypeCheckIn, status.Latest.Type)
	assert.Equal(t, 12.97, status.Latest.Lat)

	require.Len(t, cache.Attendance(), 1)
}

func TestCreate_CheckOutFlipsStatus(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1", UserName: "Asha",
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, attendance.CreateRequest{
		Type: attendance.TypeCheckOut, UserID: "u1", UserName: "Asha",
	})
	require.NoError(t, err)

	status := svc.LatestStatusFor(ctx, "u1")
	assert.Equal(t, attendance.StatusNotWorking, status.Status)
	require.NotNil(t, status.Latest)
	assert.Equal(t, second.Record.ID, status.Latest.ID)

	logs := svc.UserLogs(ctx, "u1")
	require.Len(t, logs, 2)
	assert.Equal(t, second.Record.ID, logs[0].ID)
	assert.Equal(t, first.Record.ID, logs[1].ID)
}

func TestCreate_ConsecutiveCheckInsArePermitted(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, attendance.CreateRequest{Type: attendance.TypeCheckIn, UserID: "u1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, attendance.CreateRequest{Type: attendance.TypeCheckIn, UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusWorking, svc.LatestStatusFor(ctx, "u1").Status)
	assert.Len(t, svc.UserLogs(ctx, "u1"), 2)
}

func TestUserLogs_StableForEqualTimestamps(t *testing.T) {
	svc, cache := newTestService(nil, nil)
	ctx := context.Background()

	when := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := []attendance.Record{
		{ID: "r1", UserID: "u1", Type: attendance.TypeCheckIn, Time: when},
		{ID: "r2", UserID: "u1", Type: attendance.TypeCheckOut, Time: when},
		{ID: "r3", UserID: "u2", Type: attendance.TypeCheckIn, Time: when},
	}
	require.NoError(t, cache.SetAttendance(rows))

	first := svc.UserLogs(ctx, "u1")
	second := svc.UserLogs(ctx, "u1")
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, "r1", first[0].ID)
	assert.Equal(t, "r2", first[1].ID)
}

func TestCreate_RoundTripThroughLogs(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	ctx := context.Background()

	result, err := svc.Create(ctx, attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1", UserName: "Asha",
		Device: geo.Device{UserAgent: "Mozilla/5.0", Platform: "Linux", Language: "en-IN"},
	})
	require.NoError(t, err)

	logs := svc.UserLogs(ctx, "u1")
	require.Len(t, logs, 1)
	assert.Equal(t, result.Record, logs[0])
}

func TestCreate_LocationDeniedAddsNothing(t *testing.T) {
	locator := &fakeLocator{err: geo.ErrLocationUnavailable}
	svc, cache := newTestService(nil, locator)

	_, err := svc.Create(context.Background(), attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1",
	})
	assert.ErrorIs(t, err, attendance.ErrLocationUnavailable)
	assert.Empty(t, cache.Attendance())
}

func TestCreate_ClientCoordinatesSkipLocator(t *testing.T) {
	locator := &fakeLocator{err: geo.ErrLocationUnavailable}
	svc, _ := newTestService(nil, locator)

	lat, lng := 48.85, 2.35
	result, err := svc.Create(context.Background(), attendance.CreateRequest{
		Type: attendance.TypeCheckOut, UserID: "u1", Lat: &lat, Lng: &lng,
	})
	require.NoError(t, err)
	assert.Equal(t, 48.85, result.Record.Lat)
	assert.Zero(t, locator.calls)
}

func TestCreate_MirrorFailureIsPartialSuccess(t *testing.T) {
	remote := &fakeRemote{fail: true}
	svc, cache := newTestService(remote, nil)

	result, err := svc.Create(context.Background(), attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1", UserName: "Asha",
	})
	require.NoError(t, err)
	assert.False(t, result.Mirrored)
	assert.Contains(t, result.MirrorError, "connection refused")

	// Local cache holds the record; the remote store does not.
	assert.Len(t, cache.Attendance(), 1)
	assert.Empty(t, remote.records)
}

func TestCreate_MirrorSuccess(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newTestService(remote, nil)

	result, err := svc.Create(context.Background(), attendance.CreateRequest{
		Type: attendance.TypeCheckIn, UserID: "u1", UserName: "Asha",
	})
	require.NoError(t, err)
	assert.True(t, result.Mirrored)
	assert.Empty(t, result.MirrorError)
	require.Len(t, remote.records, 1)
	assert.Equal(t, result.Record.ID, remote.records[0].ID)
}

func TestCreate_InvalidTypeRejected(t *testing.T) {
	svc, cache := newTestService(nil, nil)

	_, err := svc.Create(context.Background(), attendance.CreateRequest{
		Type: "lunch", UserID: "u1",
	})
	assert.Error(t, err)
	assert.Empty(t, cache.Attendance())
}

func TestResetDemo_ClearsLocalOnly(t *testing.T) {
	remote := &fakeRemote{}
	svc, cache := newTestService(remote, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, attendance.CreateRequest{Type: attendance.TypeCheckIn, UserID: "u1"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetDemo(ctx))
	assert.Empty(t, cache.Attendance())
	assert.Len(t, remote.records, 1)
}
