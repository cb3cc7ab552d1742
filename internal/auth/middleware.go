package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

// SecurityScheme is the name operations list in their Security requirements
// to be guarded by Middleware.
const SecurityScheme = "bearer"

// Security is the requirement list for operations that need a logged in user.
var Security = []map[string][]string{{SecurityScheme: {}}}

type userLoader interface {
	FindByID(ctx context.Context, id int64) (*sqlconfig.User, error)
}

// Middleware authenticates operations that declare SecurityScheme. The user
// is loaded on every request so deleted accounts and role changes apply
// immediately.
func Middleware(api huma.API, issuer *TokenIssuer, users userLoader) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx.Operation()) {
			next(ctx)
			return
		}

		token, ok := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		if !ok || token == "" {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := issuer.Parse(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := users.FindByID(ctx.Context(), userID)
		if errors.Is(err, common.ErrorNotFound) {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "unknown user")
			return
		}
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "failed to load user", err)
			return
		}

		if logData := logging.GetLogData(ctx.Context()); logData != nil {
			logData.AddData("userID", user.ID)
		}

		identity := Identity{
			UserID:   user.ID,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		}
		next(huma.WithContext(ctx, WithIdentity(ctx.Context(), identity)))
	}
}

func requiresAuth(op *huma.Operation) bool {
	if op == nil {
		return false
	}
	for _, requirement := range op.Security {
		if _, ok := requirement[SecurityScheme]; ok {
			return true
		}
	}
	return false
}
