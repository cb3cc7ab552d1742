package sqlconfig

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
)

// User represents a users row.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsAdmin      bool      `db:"is_admin"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserCreate is the input for creating a new user.
type UserCreate struct {
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// UserUpdate replaces the username and, when set, the password hash.
type UserUpdate struct {
	ID           int64
	Username     string
	PasswordHash omit.Val[string]
}

// UserFilter specifies filters for listing users.
type UserFilter struct {
	ExcludeAdmins bool
}

// IUserTable defines the interface for user storage operations.
//
//go:generate mockery --name IUserTable --inpackage --with-expecter --filename mock_IUserTable.go
type IUserTable interface {
	Insert(ctx context.Context, create *UserCreate) (int64, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, update *UserUpdate) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter *UserFilter) ([]*User, error)
}
