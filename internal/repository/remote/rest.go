package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tronxlabs/attendance-backend-go/internal/domain/attendance"
	"github.com/tronxlabs/attendance-backend-go/internal/domain/user"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
)

const restTimeout = 15 * time.Second

// RestStore talks to a hosted relational store over its REST surface: one
// resource path per table, equality filters as query parameters, the API key
// carried in both apikey and bearer headers. Failures always propagate.
type RestStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRestStore(baseURL, apiKey string) *RestStore {
	return &RestStore{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: restTimeout},
	}
}

// restUser mirrors the hosted users table.
type restUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// restRecord mirrors the hosted attendance table.
type restRecord struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id,omitempty"`
	UserName string     `json:"user_name"`
	Type     string     `json:"type"`
	Time     string     `json:"time"`
	Address  string     `json:"address"`
	Lat      float64    `json:"lat"`
	Lng      float64    `json:"lng"`
	Device   geo.Device `json:"device"`
}

func toRestUser(u user.User) restUser {
	return restUser{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (r restUser) toUser() user.User {
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Phone:        r.Phone,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         user.Role(r.Role),
		CreatedAt:    createdAt,
	}
}

func toRestRecord(rec attendance.Record) restRecord {
	return restRecord{
		ID:       rec.ID,
		UserID:   rec.UserID,
		UserName: rec.UserName,
		Type:     string(rec.Type),
		Time:     rec.Time.UTC().Format(time.RFC3339),
		Address:  rec.Address,
		Lat:      rec.Lat,
		Lng:      rec.Lng,
		Device:   rec.Device,
	}
}

func (r restRecord) toRecord() attendance.Record {
	t, _ := time.Parse(time.RFC3339, r.Time)
	return attendance.Record{
		ID:       r.ID,
		UserID:   r.UserID,
		UserName: r.UserName,
		Type:     attendance.Type(r.Type),
		Time:     t,
		Address:  r.Address,
		Lat:      r.Lat,
		Lng:      r.Lng,
		Device:   r.Device,
	}
}

// request performs one REST call and decodes the row array into out.
// A non-2xx answer is surfaced with the backend's message field when present.
func (s *RestStore) request(ctx context.Context, method, table string, params url.Values, body interface{}, out interface{}) error {
	endpoint := s.baseURL + "/" + table
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusConflict {
			return user.ErrEmailExists
		}
		var errBody struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errBody) == nil && errBody.Message != "" {
			return fmt.Errorf("%w: %s", ErrRemoteUnavailable, errBody.Message)
		}
		return fmt.Errorf("%w: unexpected status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

func (s *RestStore) ListUsers(ctx context.Context) ([]user.User, error) {
	params := url.Values{}
	params.Set("select", "*")

	var rows []restUser
	if err := s.request(ctx, http.MethodGet, "users", params, nil, &rows); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (s *RestStore) AddUser(ctx context.Context, u user.User) error {
	exists, err := s.UserExists(ctx, u.Email)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrEmailExists
	}
	return s.request(ctx, http.MethodPost, "users", nil, []restUser{toRestUser(u)}, nil)
}

func (s *RestStore) UserExists(ctx context.Context, email string) (bool, error) {
	params := url.Values{}
	params.Set("select", "email")
	params.Set("email", "eq."+strings.ToLower(email))
	params.Set("limit", "1")

	var rows []restUser
	if err := s.request(ctx, http.MethodGet, "users", params, nil, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *RestStore) FindUserByEmail(ctx context.Context, email string) (user.User, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("email", "eq."+strings.ToLower(email))
	params.Set("limit", "1")

	var rows []restUser
	if err := s.request(ctx, http.MethodGet, "users", params, nil, &rows); err != nil {
		return user.User{}, err
	}
	if len(rows) == 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return rows[0].toUser(), nil
}

func (s *RestStore) FindUserByEmailAndPassword(ctx context.Context, email, password string) (user.User, error) {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if !matchPassword(u, password) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (s *RestStore) RecordAttendance(ctx context.Context, record attendance.Record) error {
	return s.request(ctx, http.MethodPost, "attendance", nil, []restRecord{toRestRecord(record)}, nil)
}

func (s *RestStore) ListAttendance(ctx context.Context, userKey string) ([]attendance.Record, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("user_name", "eq."+userKey)
	params.Set("order", "time.desc")

	var rows []restRecord
	if err := s.request(ctx, http.MethodGet, "attendance", params, nil, &rows); err != nil {
		return nil, err
	}
	records := make([]attendance.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}
