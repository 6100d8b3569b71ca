package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: record not found (food/7)", NotFound("record not found", "food/7").Error())
	assert.Equal(t, "UNAUTHORIZED: invalid token", Unauthorized("invalid token").Error())

	var nilErr *APIError
	assert.Equal(t, "", nilErr.Error())
}

func TestConstructorsCarryStatus(t *testing.T) {
	cases := map[*APIError]int{
		BadRequest("bad", ""):     http.StatusBadRequest,
		Unauthorized("no"):        http.StatusUnauthorized,
		Forbidden("nope"):         http.StatusForbidden,
		NotFound("missing", ""):   http.StatusNotFound,
		Conflict("duplicate", ""): http.StatusConflict,
	}

	for apiErr, status := range cases {
		assert.Equal(t, status, apiErr.HTTPStatus, apiErr.Code)
	}
}

func TestAPIErrorUnwrapsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("signin: %w", Unauthorized("invalid credentials"))

	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, CodeUnauthorized, apiErr.Code)
}
