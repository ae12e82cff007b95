package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/repository/localcache"
)

const actionTimeout = 15 * time.Second

// ActionStore talks to the action-multiplexed spreadsheet API: a single
// endpoint, the operation named by an "action" field in the POST body.
//
// With a fallback cache (NewSheetsStore) any transport or application
// failure silently degrades to the local mirror, so callers are never
// blocked by backend unavailability. Without one (NewProxyStore) failures
// propagate as ErrRemoteUnavailable.
type ActionStore struct {
	endpoint string
	client   *http.Client
	fallback *localcache.Store
}

func NewSheetsStore(endpoint string, fallback *localcache.Store) *ActionStore {
	return &ActionStore{
		endpoint: endpoint,
		client:   &http.Client{Timeout: actionTimeout},
		fallback: fallback,
	}
}

func NewProxyStore(endpoint string) *ActionStore {
	return &ActionStore{
		endpoint: endpoint,
		client:   &http.Client{Timeout: actionTimeout},
	}
}

// actionUser is the user row shape of the spreadsheet API.
type actionUser struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// actionRecord is the attendance row shape. The device descriptor travels as
// a JSON string, a quirk of the spreadsheet backend.
type actionRecord struct {
	ID       string  `json:"id"`
	UserName string  `json:"userName"`
	Type     string  `json:"type"`
	Time     string  `json:"time"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Device   string  `json:"device"`
}

func toActionUser(u user.User) actionUser {
	return actionUser{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (a actionUser) toUser() user.User {
	createdAt, _ := time.Parse(time.RFC3339, a.CreatedAt)
	return user.User{
		ID:           a.ID,
		Name:         a.Name,
		Phone:        a.Phone,
		Email:        a.Email,
		PasswordHash: a.Password,
		Role:         user.Role(a.Role),
		CreatedAt:    createdAt,
	}
}

func toActionRecord(r attendance.Record) actionRecord {
	device, _ := json.Marshal(r.Device)
	return actionRecord{
		ID:       r.ID,
		UserName: r.UserName,
		Type:     string(r.Type),
		Time:     r.Time.UTC().Format(time.RFC3339),
		Address:  r.Address,
		Lat:      r.Lat,
		Lng:      r.Lng,
		Device:   string(device),
	}
}

func (a actionRecord) toRecord() attendance.Record {
	t, _ := time.Parse(time.RFC3339, a.Time)
	var device geo.Device
	_ = json.Unmarshal([]byte(a.Device), &device)
	return attendance.Record{
		ID:       a.ID,
		UserName: a.UserName,
		Type:     attendance.Type(a.Type),
		Time:     t,
		Address:  a.Address,
		Lat:      a.Lat,
		Lng:      a.Lng,
		Device:   device,
	}
}

// call POSTs {action, ...payload} and decodes the response into out.
func (s *ActionStore) call(ctx context.Context, payload map[string]interface{}, out interface{}) error {
	if s.endpoint == "" {
		return fmt.Errorf("%w: no endpoint configured", ErrRemoteUnavailable)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrRemoteUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *ActionStore) ListUsers(ctx context.Context) ([]user.User, error) {
	var resp struct {
		Users []actionUser `json:"users"`
	}
	if err := s.call(ctx, map[string]interface{}{"action": "getUsers"}, &resp); err != nil {
		if s.fallback == nil {
			return nil, err
		}
		slog.Warn("Sheets backend unavailable, reading users from local mirror", "error", err)
		return s.fallback.LocalUsers(), nil
	}

	users := make([]user.User, 0, len(resp.Users))
	for _, wu := range resp.Users {
		users = append(users, wu.toUser())
	}
	return users, nil
}

func (s *ActionStore) AddUser(ctx context.Context, u user.User) error {
	exists, err := s.UserExists(ctx, u.Email)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrEmailExists
	}

	var resp struct {
		Success bool `json:"success"`
	}
	err = s.call(ctx, map[string]interface{}{"action": "addUser", "user": toActionUser(u)}, &resp)
	if err != nil {
		if s.fallback == nil {
			return err
		}
		slog.Warn("Sheets backend unavailable, saving user to local mirror", "error", err)
		return s.fallback.SetLocalUsers(append(s.fallback.LocalUsers(), u))
	}
	if !resp.Success {
		return fmt.Errorf("%w: backend rejected user", ErrRemoteUnavailable)
	}
	return nil
}

func (s *ActionStore) UserExists(ctx context.Context, email string) (bool, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *ActionStore) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (s *ActionStore) FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if !matchPassword(u, password) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (s *ActionStore) RecordAttendance(ctx context.Context, record attendance.Record) error {
	var resp struct {
		Success bool `json:"success"`
	}
	err := s.call(ctx, map[string]interface{}{"action": "addAttendance", "attendance": toActionRecord(record)}, &resp)
	if err != nil {
		if s.fallback == nil {
			return err
		}
		slog.Warn("Sheets backend unavailable, saving attendance to local mirror", "error", err)
		return s.fallback.AppendMirrorAttendance(record)
	}
	if !resp.Success {
		return fmt.Errorf("%w: backend rejected attendance record", ErrRemoteUnavailable)
	}
	return nil
}

func (s *ActionStore) ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error) {
	var resp struct {
		Records []actionRecord `json:"records"`
	}
	err := s.call(ctx, map[string]interface{}{"action": "getUserAttendance", "userName": userKey}, &resp)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		slog.Warn("Sheets backend unavailable, reading attendance from local mirror", "error", err)
		var rows []attendance.Record
		for _, r := range s.fallback.MirrorAttendance() {
			if strings.EqualFold(r.UserName, userKey) {
				rows = append(rows, r)
			}
		}
		attendance.SortNewestFirst(rows)
		return rows, nil
	}

	rows := make([]attendance.Record, 0, len(resp.Records))
	for _, wr := range resp.Records {
		rows = append(rows, wr.toRecord())
	}
	attendance.SortNewestFirst(rows)
	return rows, nil
}
