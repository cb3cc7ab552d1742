package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// UserService handles registration, login and user administration.
type UserService struct {
	storage   *storage.Storage
	processor ActionProcessor
}

func NewUserService(store *storage.Storage, processor ActionProcessor) *UserService {
	return &UserService{storage: store, processor: processor}
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if utf8.RuneCountInString(username) < minUsernameLength {
		return "", fmt.Errorf("%w: username must be at least %d characters", common.ErrorInvalidInput, minUsernameLength)
	}
	return username, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidInput, minPasswordLength)
	}
	return nil
}

// Register creates a regular user.
func (s *UserService) Register(ctx context.Context, username, password string) (*User, error) {
	return s.CreateUser(ctx, username, password, false)
}

// CreateUser validates the credentials and inserts a user with the given role.
func (s *UserService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	action := &actions.CreateUser{Create: sqlconfig.UserCreate{
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	return &User{ID: action.ID, Username: username, IsAdmin: isAdmin}, nil
}

// Authenticate checks the credentials. Unknown users and wrong passwords
// both yield ErrorUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	row, err := s.storage.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(row.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid username or password", common.ErrorUnauthorized)
	}

	user := userFromStorage(row)
	return &user, nil
}

// EnsureAdmin makes sure an administrator account named username exists,
// creating it with password when missing.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (*User, bool, error) {
	row, err := s.storage.Users.FindByUsername(ctx, strings.TrimSpace(username))
	switch {
	case err == nil && row.IsAdmin:
		user := userFromStorage(row)
		return &user, false, nil
	case err == nil:
		return nil, false, fmt.Errorf("%w: %q exists and is not an administrator", common.ErrorDuplicateKey, row.Username)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, false, err
	}

	if password == "" {
		return nil, false, fmt.Errorf("%w: administrator %q does not exist and no password was given", common.ErrorInvalidInput, username)
	}
	user, err := s.CreateUser(ctx, username, password, true)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// ListMembers returns every non-admin user with their transaction totals.
func (s *UserService) ListMembers(ctx context.Context, identity auth.Identity) ([]Member, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}

	userRows, err := s.storage.Users.List(ctx, &sqlconfig.UserFilter{ExcludeAdmins: true})
	if err != nil {
		return nil, err
	}
	rows, err := s.storage.Transactions.List(ctx, &sqlconfig.TransactionFilter{ExcludeAdmins: true})
	if err != nil {
		return nil, err
	}

	users := make([]User, len(userRows))
	for i, row := range userRows {
		users[i] = userFromStorage(row)
	}
	statsByUser := make(map[int64]UserSummary, len(users))
	for _, stats := range SummarizeByUser(users, transactionsFromStorage(rows)) {
		statsByUser[stats.UserID] = stats
	}

	members := make([]Member, len(users))
	for i, user := range users {
		members[i] = Member{User: user, Stats: statsByUser[user.ID]}
	}
	return members, nil
}

// UpdateMember renames a non-admin user and optionally resets their password.
func (s *UserService) UpdateMember(ctx context.Context, identity auth.Identity, id int64, username string, password *string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	username, err := normalizeUsername(username)
	if err != nil {
		return err
	}

	update := sqlconfig.UserUpdate{ID: id, Username: username}
	if password != nil {
		if err := validatePassword(*password); err != nil {
			return err
		}
		hash, err := auth.HashPassword(*password)
		if err != nil {
			return err
		}
		update.PasswordHash = omit.From(hash)
	}

	return s.processor.Process(ctx, &actions.UpdateUser{Update: update})
}

// DeleteMember removes a non-admin user and all of their transactions and
// returns how many transactions were removed.
func (s *UserService) DeleteMember(ctx context.Context, identity auth.Identity, id int64) (int64, error) {
	if err := requireAdmin(identity); err != nil {
		return 0, err
	}

	action := &actions.DeleteUser{ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.DeletedTransactions, nil
}
