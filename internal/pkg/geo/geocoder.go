package geo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const geocodeTimeout = 10 * time.Second

// Geocoder resolves coordinates to a human-readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) string
}

// NominatimGeocoder calls a Nominatim-compatible reverse geocoding endpoint.
// Resolution is best effort: any failure yields an empty address, never an
// error.
type NominatimGeocoder struct {
	baseURL string
	client  *http.Client
}

func NewNominatimGeocoder(baseURL string) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: geocodeTimeout},
	}
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	if g.baseURL == "" {
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+query.Encode(), nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		slog.Warn("Reverse geocode request failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Reverse geocode returned non-OK status", "status", resp.StatusCode)
		return ""
	}

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return body.DisplayName
}
