package user

import "time"

// Response is the public shape of a user. The password hash never leaves the
// service layer.
type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() Response {
	return Response{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// RosterEntry is one row of the admin roster: a user plus their live status.
type RosterEntry struct {
	User   Response `json:"user"`
	Status string   `json:"status"`
}
