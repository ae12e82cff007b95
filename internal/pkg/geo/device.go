package geo

import (
	"net/http"
	"strings"
)

// Device describes the client that produced an attendance record.
type Device struct {
	UserAgent string `json:"userAgent"`
	Platform  string `json:"platform"`
	Language  string `json:"language"`
}

// DeviceFromRequest builds the device descriptor from standard request
// headers.
func DeviceFromRequest(r *http.Request) Device {
	language := r.Header.Get("Accept-Language")
	if idx := strings.IndexAny(language, ",;"); idx >= 0 {
		language = language[:idx]
	}
	return Device{
		UserAgent: r.UserAgent(),
		Platform:  strings.Trim(r.Header.Get("Sec-CH-UA-Platform"), `"`),
		Language:  strings.TrimSpace(language),
	}
}
