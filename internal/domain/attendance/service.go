package attendance

import "context"

type AttendanceService interface {
	// LatestStatusFor derives the user's current status from their most
	// recent record. A user with no records is "Not working".
	LatestStatusFor(ctx context.Context, userID string) StatusResult

	// UserLogs returns all of the user's records, newest first.
	UserLogs(ctx context.Context, userID string) []Record

	// Create runs the full pipeline: location fix, reverse geocode, local
	// append, best-effort remote mirror.
	Create(ctx context.Context, req CreateRequest) (CreateResult, error)

	// ResetDemo clears locally cached attendance and session data. Remote
	// data is untouched.
	ResetDemo(ctx context.Context) error
}
