package attendance

import "errors"

var (
	// ErrLocationUnavailable means no location fix could be acquired:
	// no positioning source, a denied request, or a timeout. Callers show a
	// message distinct from other failures.
	ErrLocationUnavailable = errors.New("location unavailable")

	ErrInvalidType = errors.New("attendance type must be checkin or checkout")
)
