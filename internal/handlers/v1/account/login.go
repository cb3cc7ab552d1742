package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

type LoginInput struct {
	Body CredentialsBody
}

type LoginResponseBody struct {
	Token     string `json:"token" doc:"Bearer token for the Authorization header"`
	ExpiresAt string `json:"expiresAt" doc:"RFC3339 token expiry"`
	User      User   `json:"user"`
}

type LoginOutput struct {
	Body LoginResponseBody
}

type authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*service.User, error)
}

type tokenIssuer interface {
	Issue(userID int64) (string, time.Time, error)
}

// LoginHandler handles POST /v1/auth/login.
type LoginHandler struct {
	UserService authenticator
	Tokens      tokenIssuer
}

func NewLoginHandler(svc authenticator, tokens tokenIssuer) *LoginHandler {
	return &LoginHandler{UserService: svc, Tokens: tokens}
}

func (h *LoginHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/v1/auth/login",
		Summary:     "Log in",
		Description: "Exchanges a username and password for a bearer token.",
		Tags:        []string{"Auth"},
	}, h.handle)
}

func (h *LoginHandler) handle(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := h.UserService.Authenticate(ctx, input.Body.Username, input.Body.Password)
	if errors.Is(err, common.ErrorUnauthorized) {
		return nil, huma.Error401Unauthorized("invalid username or password")
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to log in")
	}

	token, expiresAt, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to issue token", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("userID", user.ID)
	}

	return &LoginOutput{Body: LoginResponseBody{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      NewUser(*user),
	}}, nil
}
