package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
)

type AttendanceServiceImpl struct {
	cache    *localcache.Store
	remote   remote.Store // nil when no sync backend is configured
	locator  geo.Locator
	geocoder geo.Geocoder
}

func NewAttendanceService(cache *localcache.Store, remoteStore remote.Store, locator geo.Locator, geocoder geo.Geocoder) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		cache:    cache,
		remote:   remoteStore,
		locator:  locator,
		geocoder: geocoder,
	}
}

// userRows returns the user's cached records, newest first.
func (s *AttendanceServiceImpl) userRows(userID string) []attendance.Record {
	var rows []attendance.Record
	for _, r := range s.cache.Attendance() {
		if r.UserID == userID {
			rows = append(rows, r)
		}
	}
	attendance.SortNewestFirst(rows)
	return rows
}

// LatestStatusFor implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) LatestStatusFor(ctx context.Context, userID string) attendance.StatusResult {
	rows := s.userRows(userID)
	if len(rows) == 0 {
		return attendance.StatusResult{Status: attendance.StatusNotWorking}
	}

	latest := rows[0]
	status := attendance.StatusNotWorking
	if latest.Type == attendance.TypeCheckIn {
		status = attendance.StatusWorking
	}
	return attendance.StatusResult{Status: status, Latest: &latest}
}

// UserLogs implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UserLogs(ctx context.Context, userID string) []attendance.Record {
	return s.userRows(userID)
}

// Create implements attendance.AttendanceService. The pipeline runs its
// stages in order; only the location fix can fail the operation once
// validation has passed. A failed remote mirror is reported in the result,
// not as an error: the local write is the durable copy.
func (s *AttendanceServiceImpl) Create(ctx context.Context, req attendance.CreateRequest) (attendance.CreateResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.CreateResult{}, err
	}

	var pos geo.Position
	if req.Lat != nil && req.Lng != nil {
		pos = geo.Position{Lat: *req.Lat, Lng: *req.Lng}
	} else {
		var err error
		pos, err = s.locator.Current(ctx)
		if err != nil {
			if errors.Is(err, geo.ErrLocationUnavailable) {
				return attendance.CreateResult{}, attendance.ErrLocationUnavailable
			}
			return attendance.CreateResult{}, fmt.Errorf("failed to acquire location fix: %w", err)
		}
	}

	address := s.geocoder.ReverseGeocode(ctx, pos.Lat, pos.Lng)

	record := attendance.Record{
		ID:       uuid.Must(uuid.NewV7()).String(),
		UserID:   req.UserID,
		UserName: req.UserName,
		Type:     req.Type,
		Time:     time.Now().UTC(),
		Lat:      pos.Lat,
		Lng:      pos.Lng,
		Address:  address,
		Device:   req.Device,
	}

	if err := s.cache.AppendAttendance(record); err != nil {
		return attendance.CreateResult{}, fmt.Errorf("failed to persist attendance record: %w", err)
	}

	result := attendance.CreateResult{Record: record}
	if s.remote != nil {
		if err := s.remote.RecordAttendance(ctx, record); err != nil {
			// No retry queue: the divergence stands until someone acts on it.
			slog.Warn("Failed to mirror attendance record to remote backend",
				"record_id", record.ID, "error", err)
			result.MirrorError = err.Error()
		} else {
			result.Mirrored = true
		}
	}
	return result, nil
}

// ResetDemo implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ResetDemo(ctx context.Context) error {
	return s.cache.Reset()
}
