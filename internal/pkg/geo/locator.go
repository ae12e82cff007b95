package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// FixTimeout bounds a single location fix, matching the 12 second limit the
// dashboards apply on their side.
const FixTimeout = 12 * time.Second

// ErrLocationUnavailable covers a missing positioning source, a denied fix
// and a timed-out fix. Callers surface it with a distinct user-facing message.
var ErrLocationUnavailable = errors.New("location unavailable")

type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Locator produces a single coordinate reading.
type Locator interface {
	Current(ctx context.Context) (Position, error)
}

// HTTPLocator asks a positioning endpoint for the device's current fix.
// The endpoint is expected to answer {"lat": <deg>, "lng": <deg>}.
type HTTPLocator struct {
	endpoint string
	client   *http.Client
}

func NewHTTPLocator(endpoint string) *HTTPLocator {
	return &HTTPLocator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: FixTimeout},
	}
}

func (l *HTTPLocator) Current(ctx context.Context) (Position, error) {
	if l.endpoint == "" {
		return Position{}, ErrLocationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, FixTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return Position{}, fmt.Errorf("failed to build locator request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Position{}, ErrLocationUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, ErrLocationUnavailable
	}

	var pos Position
	if err := json.NewDecoder(resp.Body).Decode(&pos); err != nil {
		return Position{}, ErrLocationUnavailable
	}
	return pos, nil
}

// NoopLocator reports location as unavailable. Used when no positioning
// endpoint is configured and clients are expected to supply coordinates.
type NoopLocator struct{}

func (NoopLocator) Current(ctx context.Context) (Position, error) {
	return Position{}, ErrLocationUnavailable
}
