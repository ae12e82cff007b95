package remote

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
)

// ErrRemoteUnavailable wraps transport and backend failures. The attendance
// service swallows it while mirroring; user lookup and signup surface it.
var ErrRemoteUnavailable = errors.New("remote backend unavailable")

// Store is the uniform sync contract. Implementations are drop-in
// substitutable: the action-multiplexed sheets API (with or without a local
// fallback), the hosted REST store, and a direct Postgres store.
type Store interface {
	ListUsers(ctx context.Context) ([]user.User, error)
	AddUser(ctx context.Context, u user.User) error
	UserExists(ctx context.Context, email string) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (user.User, error)
	FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error)
	RecordAttendance(ctx context.Context, record attendance.Record) error
	ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error)
}

// matchPassword compares a candidate password against the stored bcrypt
// hash. Backends never receive or store plaintext passwords.
func matchPassword(u user.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
