package localcache

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/kv"
)

// Cache keys, versioned by suffix. Bump the suffix when the serialized shape
// changes so stale caches read back as empty instead of half-decoding.
const (
	attendanceKey       = "attendance_v5"
	sessionKey          = "session_v5"
	usersKey            = "users_local"
	mirrorAttendanceKey = "attendance_local"
)

// Session is the cache-resident login state: one per cache, set at login,
// cleared at logout. Type is "employee", "admin" or "" when logged out.
type Session struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// Store is the typed local cache: the durable fallback for attendance rows,
// the login session, and the local user mirror used when the sheets backend
// is unreachable. Reads never fail; malformed or missing entries degrade to
// empty defaults.
type Store struct {
	kv kv.Store
}

func NewStore(kvStore kv.Store) *Store {
	return &Store{kv: kvStore}
}

// load unmarshals the value at key into out, leaving out untouched when the
// key is missing or the payload does not parse.
func (s *Store) load(key string, out interface{}) {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("Failed to read cache key", "key", key, "error", err)
		}
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("Discarding malformed cache entry", "key", key, "error", err)
	}
}

func (s *Store) save(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.kv.Set(key, raw)
}

// Attendance returns all cached attendance rows in insertion order.
func (s *Store) Attendance() []attendance.Record {
	var rows []attendance.Record
	s.load(attendanceKey, &rows)
	return rows
}

func (s *Store) SetAttendance(rows []attendance.Record) error {
	return s.save(attendanceKey, rows)
}

// AppendAttendance adds one record, preserving call order.
func (s *Store) AppendAttendance(record attendance.Record) error {
	rows := s.Attendance()
	rows = append(rows, record)
	return s.SetAttendance(rows)
}

func (s *Store) Session() Session {
	var sess Session
	s.load(sessionKey, &sess)
	return sess
}

func (s *Store) SetSession(sess Session) error {
	return s.save(sessionKey, sess)
}

func (s *Store) ClearSession() error {
	return s.kv.Delete(sessionKey)
}

// LocalUsers returns the locally mirrored user list (sheets fallback).
func (s *Store) LocalUsers() []user.User {
	var users []user.User
	s.load(usersKey, &users)
	return users
}

func (s *Store) SetLocalUsers(users []user.User) error {
	return s.save(usersKey, users)
}

// MirrorAttendance returns records the sheets adapter parked locally while
// its backend was unreachable. Distinct from the service's own cache.
func (s *Store) MirrorAttendance() []attendance.Record {
	var rows []attendance.Record
	s.load(mirrorAttendanceKey, &rows)
	return rows
}

func (s *Store) AppendMirrorAttendance(record attendance.Record) error {
	rows := s.MirrorAttendance()
	rows = append(rows, record)
	return s.save(mirrorAttendanceKey, rows)
}

// Reset clears attendance rows and the session, leaving remote data alone.
func (s *Store) Reset() error {
	if err := s.kv.Delete(attendanceKey); err != nil {
		return err
	}
	return s.kv.Delete(sessionKey)
}
