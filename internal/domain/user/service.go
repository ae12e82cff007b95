package user

import "context"

type UserService interface {
	// Roster lists every user with their live derived status. Admin view.
	Roster(ctx context.Context) ([]RosterEntry, error)

	// GetByID returns a single user.
	GetByID(ctx context.Context, id string) (Response, error)
}
