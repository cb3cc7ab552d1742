package httperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/common"
)

func TestFromService(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: amount must be greater than 0", common.ErrorInvalidInput), http.StatusBadRequest},
		{common.ErrorInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: administrator only", common.ErrorUnauthorized), http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrorDuplicateKey, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			var statusErr huma.StatusError
			require.ErrorAs(t, FromService(tc.err, "failed"), &statusErr)
			assert.Equal(t, tc.status, statusErr.GetStatus())
		})
	}
}

func TestIdentity(t *testing.T) {
	_, err := Identity(context.Background())
	var statusErr huma.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.GetStatus())

	want := auth.Identity{UserID: 2, Username: "alice"}
	got, err := Identity(auth.WithIdentity(context.Background(), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
