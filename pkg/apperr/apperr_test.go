package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/matryer/is"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidState, http.StatusConflict},
		{ErrDuplicate, http.StatusConflict},
		{ErrTeamFull, http.StatusConflict},
		{ErrDuplicateRequest, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		is := is.New(t)
		is.Equal(StatusCode(tc.err), tc.want)
	}
}

func TestStatusCodeUnwrapsWrappedErrors(t *testing.T) {
	is := is.New(t)

	wrapped := fmt.Errorf("team 42: %w", ErrTeamFull)
	is.Equal(StatusCode(wrapped), http.StatusConflict)
	is.True(errors.Is(wrapped, ErrTeamFull))
}
