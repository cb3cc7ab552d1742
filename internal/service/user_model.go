package service

import (
	"time"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

// User represents a user in the service layer. The password hash never
// leaves the storage and service packages.
type User struct {
	ID        int64
	Username  string
	IsAdmin   bool
	CreatedAt time.Time
}

// Member is a non-admin user with their transaction totals.
type Member struct {
	User
	Stats UserSummary
}

func userFromStorage(row *sqlconfig.User) User {
	return User{
		ID:        row.ID,
		Username:  row.Username,
		IsAdmin:   row.IsAdmin,
		CreatedAt: row.CreatedAt,
	}
}
