package attendance

import (
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/geo"
	"github.com/tronxlabs/attendance-backend-go/internal/pkg/validator"
)

// CreateRequest carries one check-in/check-out action. UserID, UserName and
// Device are filled from the authenticated request, not the JSON body.
// Lat/Lng are optional: when absent the configured locator is asked for a fix.
type CreateRequest struct {
	Type Type     `json:"type"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`

	UserID   string     `json:"-"`
	UserName string     `json:"-"`
	Device   geo.Device `json:"-"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Type != TypeCheckIn && r.Type != TypeCheckOut {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be checkin or checkout",
		})
	}
	if (r.Lat == nil) != (r.Lng == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "lat and lng must be provided together",
		})
	}
	if r.Lat != nil && !validator.IsValidLatitude(*r.Lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "lat must be between -90 and 90",
		})
	}
	if r.Lng != nil && !validator.IsValidLongitude(*r.Lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "lng",
			Message: "lng must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusResult is the derived view of a user's current status. Latest is nil
// when the user has no records.
type StatusResult struct {
	Status string  `json:"status"`
	Latest *Record `json:"latest,omitempty"`
}

// CreateResult reports the outcome of a create: the local write always
// succeeded, the remote mirror may not have. A failed mirror is surfaced
// here instead of being hidden; there is no automatic retry.
type CreateResult struct {
	Record      Record `json:"record"`
	Mirrored    bool   `json:"mirrored"`
	MirrorError string `json:"mirror_error,omitempty"`
}
