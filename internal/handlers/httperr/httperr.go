// Package httperr maps service errors onto Huma status errors.
package httperr

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/common"
)

// FromService converts err into a huma.StatusError. msg is used for errors
// that do not carry a client facing meaning.
func FromService(err error, msg string) error {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, common.ErrorInvalidToken):
		return huma.Error401Unauthorized(err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return huma.Error403Forbidden(err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return huma.Error404NotFound(msg + ": not found")
	case errors.Is(err, common.ErrorDuplicateKey):
		return huma.Error409Conflict(err.Error())
	}
	return huma.Error500InternalServerError(msg, err)
}

// Identity returns the caller attached by the auth middleware.
func Identity(ctx context.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return auth.Identity{}, huma.Error401Unauthorized("authentication required")
	}
	return identity, nil
}
