package admin

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/account"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/report"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

type memberManager interface {
	ListMembers(ctx context.Context, identity auth.Identity) ([]service.Member, error)
	UpdateMember(ctx context.Context, identity auth.Identity, id int64, username string, password *string) error
	DeleteMember(ctx context.Context, identity auth.Identity, id int64) (int64, error)
}

// UserHandlers serves user administration.
type UserHandlers struct {
	UserService memberManager
}

func NewUserHandlers(svc memberManager) *UserHandlers {
	return &UserHandlers{UserService: svc}
}

func (h *UserHandlers) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "admin-list-users",
		Method:      http.MethodGet,
		Path:        "/v1/admin/users",
		Summary:     "List users",
		Description: "Every non-admin user with their transaction count and totals.",
		Tags:        []string{"Admin"},
		Security:    auth.Security,
	}, h.listUsers)

	huma.Register(api, huma.Operation{
		OperationID:   "admin-update-user",
		Method:        http.MethodPut,
		Path:          "/v1/admin/users/{id}",
		Summary:       "Edit user",
		Description:   "Renames a user and optionally resets their password.",
		Tags:          []string{"Admin"},
		Security:      auth.Security,
		DefaultStatus: http.StatusNoContent,
	}, h.updateUser)

	huma.Register(api, huma.Operation{
		OperationID: "admin-delete-user",
		Method:      http.MethodDelete,
		Path:        "/v1/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes a user together with all of their transactions.",
		Tags:        []string{"Admin"},
		Security:    auth.Security,
	}, h.deleteUser)
}

type Member struct {
	account.User
	Stats report.UserStats `json:"stats"`
}

type ListUsersOutput struct {
	Body struct {
		Users []Member `json:"users"`
	}
}

func (h *UserHandlers) listUsers(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	members, err := h.UserService.ListMembers(ctx, identity)
	if err != nil {
		return nil, httperr.FromService(err, "failed to list users")
	}

	out := &ListUsersOutput{}
	out.Body.Users = make([]Member, len(members))
	for i, member := range members {
		out.Body.Users[i] = Member{
			User:  account.NewUser(member.User),
			Stats: report.NewUserStat(member.Stats),
		}
	}
	return out, nil
}

type UserIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"User ID"`
}

type UpdateUserInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"User ID"`
	Body struct {
		Username string  `json:"username" minLength:"1" doc:"New username, at least 3 characters after trimming"`
		Password *string `json:"password,omitempty" doc:"New password, at least 8 characters. Absent keeps the current password."`
	}
}

func (h *UserHandlers) updateUser(ctx context.Context, input *UpdateUserInput) (*struct{}, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("targetUserID", input.ID)
		logData.AddData("passwordReset", input.Body.Password != nil)
	}

	err = h.UserService.UpdateMember(ctx, identity, input.ID, input.Body.Username, input.Body.Password)
	if err != nil {
		return nil, httperr.FromService(err, "failed to update user")
	}
	return nil, nil
}

type DeleteUserOutput struct {
	Body struct {
		DeletedTransactions int64 `json:"deletedTransactions" doc:"Number of transactions removed with the user"`
	}
}

func (h *UserHandlers) deleteUser(ctx context.Context, input *UserIDInput) (*DeleteUserOutput, error) {
	logData := logging.GetLogData(ctx)

	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	deleted, err := h.UserService.DeleteMember(ctx, identity, input.ID)
	if err != nil {
		return nil, httperr.FromService(err, "failed to delete user")
	}

	if logData != nil {
		logData.AddData("targetUserID", input.ID)
		logData.AddData("deletedTransactions", deleted)
	}

	out := &DeleteUserOutput{}
	out.Body.DeletedTransactions = deleted
	return out, nil
}
