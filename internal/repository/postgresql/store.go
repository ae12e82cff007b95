package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/database"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/remote"
)

// Store implements the remote sync contract directly against Postgres, for
// deployments that own their database instead of renting a hosted REST
// store. Failures propagate; there is no local fallback.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, created_at
		FROM users
		ORDER BY created_at
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %v", remote.ErrRemoteUnavailable, err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) AddUser(ctx context.Context, u user.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, role, created_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7)
	`
	_, err := s.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailExists
		}
		return fmt.Errorf("%w: failed to add user: %v", remote.ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *Store) UserExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = lower($1))`
	if err := s.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: failed to check user existence: %v", remote.ErrRemoteUnavailable, err)
	}
	return exists, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	query := `
		SELECT id, name, email, password_hash, phone, role, created_at
		FROM users
		WHERE email = lower($1)
	`
	var u user.User
	err := s.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("%w: failed to find user by email: %v", remote.ErrRemoteUnavailable, err)
	}
	return u, nil
}

func (s *Store) FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if !MatchPassword(u, password) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) RecordAttendance(ctx context.Context, record attendance.Record) error {
	device, err := json.Marshal(record.Device)
	if err != nil {
		return fmt.Errorf("failed to encode device descriptor: %w", err)
	}

	query := `
		INSERT INTO attendance (id, user_id, user_name, type, time, lat, lng, address, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.Exec(ctx, query,
		record.ID, record.UserID, record.UserName, record.Type,
		record.Time, record.Lat, record.Lng, record.Address, device,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to record attendance: %v", remote.ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *Store) ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error) {
	query := `
		SELECT id, user_id, user_name, type, time, lat, lng, address, device
		FROM attendance
		WHERE lower(user_name) = lower($1)
		ORDER BY time DESC
	`
	rows, err := s.db.Query(ctx, query, userKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list attendance: %v", remote.ErrRemoteUnavailable, err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var device []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.UserName, &rec.Type,
			&rec.Time, &rec.Lat, &rec.Lng, &rec.Address, &device); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		if len(device) > 0 {
			if err := json.Unmarshal(device, &rec.Device); err != nil {
				return nil, fmt.Errorf("failed to decode device descriptor: %w", err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MatchPassword compares a candidate password against the stored bcrypt hash.
func MatchPassword(u user.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
