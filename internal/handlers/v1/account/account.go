package account

import (
	"time"

	"github.com/carson-networks/ledger-server/internal/service"
)

// User is the API response model for a user account.
type User struct {
	ID        int64  `json:"id" doc:"User ID"`
	Username  string `json:"username" doc:"Username"`
	IsAdmin   bool   `json:"isAdmin" doc:"Whether the user is the administrator"`
	CreatedAt string `json:"createdAt,omitempty" doc:"RFC3339 creation time"`
}

func NewUser(user service.User) User {
	out := User{
		ID:       user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}
	if !user.CreatedAt.IsZero() {
		out.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	return out
}
