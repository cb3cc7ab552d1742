package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// CredentialsBody is the request body for registering and logging in.
type CredentialsBody struct {
	Username string `json:"username" minLength:"1" doc:"Username, at least 3 characters after trimming"`
	Password string `json:"password" minLength:"1" doc:"Password, at least 8 characters"`
}

// RegisterInput is the Huma input for registering a user.
type RegisterInput struct {
	Body CredentialsBody
}

// RegisterOutput is the response for registering a user.
type RegisterOutput struct {
	Status int
	Body   User
}

// userRegisterer is the interface for creating regular users.
type userRegisterer interface {
	Register(ctx context.Context, username, password string) (*service.User, error)
}

// RegisterHandler handles POST /v1/auth/register.
type RegisterHandler struct {
	UserService userRegisterer
}

// NewRegisterHandler creates a new RegisterHandler.
func NewRegisterHandler(svc userRegisterer) *RegisterHandler {
	return &RegisterHandler{UserService: svc}
}

// Register registers the registration endpoint with the Huma API.
func (h *RegisterHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/v1/auth/register",
		Summary:     "Register",
		Description: "Creates a regular user account.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *RegisterHandler) handle(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("registerMs")
	}
	user, err := h.UserService.Register(ctx, input.Body.Username, input.Body.Password)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to register")
	}

	if logData != nil {
		logData.AddData("userID", user.ID)
	}

	return &RegisterOutput{
		Status: http.StatusCreated,
		Body:   NewUser(*user),
	}, nil
}
