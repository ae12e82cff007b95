package user

import (
	"context"
	"fmt"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
)

type UserServiceImpl struct {
	store      remote.Store
	attendance attendance.AttendanceService
}

func NewUserService(store remote.Store, attendanceService attendance.AttendanceService) user.UserService {
	return &UserServiceImpl{
		store:      store,
		attendance: attendanceService,
	}
}

// Roster implements user.UserService.
func (s *UserServiceImpl) Roster(ctx context.Context) ([]user.RosterEntry, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	entries := make([]user.RosterEntry, 0, len(users))
	for _, u := range users {
		status := s.attendance.LatestStatusFor(ctx, u.ID)
		entries = append(entries, user.RosterEntry{
			User:   u.ToResponse(),
			Status: status.Status,
		})
	}
	return entries, nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.Response, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return user.Response{}, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if u.ID == id {
			return u.ToResponse(), nil
		}
	}
	return user.Response{}, user.ErrUserNotFound
}
