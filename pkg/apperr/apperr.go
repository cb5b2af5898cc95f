// Package apperr defines the error taxonomy shared by all services.
// Services return these sentinels (wrapped with context via fmt.Errorf and
// %w); controllers translate them to HTTP status codes in one place.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound covers missing hackathons, teams, users, requests and
	// invitation tokens that resolve to nothing.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the caller is authenticated but is the wrong
	// identity or holds no role at all on the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrPermissionDenied means the caller is a coordinator on the
	// hackathon but lacks the specific permission flag for this action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidState means the operation is not valid for the entity's
	// current lifecycle state.
	ErrInvalidState = errors.New("invalid state for this operation")

	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicate covers entities that already exist: team names,
	// coordinator/judge invitations, existing memberships.
	ErrDuplicate = errors.New("already exists")

	// ErrTeamFull is returned when an action would push the active member
	// count past the hackathon's maximum team size.
	ErrTeamFull = errors.New("team is full")

	// ErrDuplicateRequest is returned when a pending join request already
	// exists between the same team and user.
	ErrDuplicateRequest = errors.New("a pending request already exists")
)

// StatusCode maps a service error to the HTTP status code returned at the
// controller boundary. Unrecognized errors are treated as internal.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrTeamFull), errors.Is(err, ErrDuplicateRequest):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
