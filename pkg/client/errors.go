package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy. Server failures surface as an *APIError which matches
// exactly one of these sentinels under errors.Is.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrCodeExpired      = errors.New("invite code expired")
	ErrCodeRevoked      = errors.New("invite code revoked")
	ErrCodeExhausted    = errors.New("invite code exhausted")
	ErrRemoteFailure    = errors.New("remote failure")
)

// Envelope codes for the invite terminal states; mirror the server's
// pkg/response constants.
const (
	codeInviteExpired   = 41001
	codeInviteRevoked   = 41002
	codeInviteExhausted = 41003
)

// APIError is a non-OK response from the server, classified but otherwise
// passed through unmodified.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d, code %d): %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotAuthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrNotAuthorized:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrInvalidArgument:
		return e.Status == http.StatusBadRequest
	case ErrConflict:
		return e.Status == http.StatusConflict
	case ErrCodeExpired:
		return e.Code == codeInviteExpired
	case ErrCodeRevoked:
		return e.Code == codeInviteRevoked
	case ErrCodeExhausted:
		return e.Code == codeInviteExhausted
	case ErrRemoteFailure:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}
