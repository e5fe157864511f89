package oauthx

import (
	"fmt"
	"net/http"

	"github.com/wardenid/warden/pkg/httpx"
)

// OAuth2 error codes per RFC 6749.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidClient        = "invalid_client"
	ErrorCodeInvalidGrant         = "invalid_grant"
	ErrorCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrorCodeInvalidScope         = "invalid_scope"
	ErrorCodeServerError          = "server_error"
)

// Error represents a standard OAuth2 error response per RFC 6749. It
// implements the error interface and knows how to write itself as an HTTP
// response.
type Error struct {
	// StatusCode is the HTTP status code for this error.
	StatusCode int `json:"-"`

	// Code is the OAuth2 error code (e.g. "invalid_request").
	Code string `json:"error"`

	// Description is a human-readable description of the error.
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error to the response writer in the RFC 6749 JSON
// shape with no-store headers.
func (e *Error) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy of the error carrying a different
// description. The predefined errors stay immutable.
func (e *Error) WithDescription(description string) *Error {
	return &Error{
		StatusCode:  e.StatusCode,
		Code:        e.Code,
		Description: description,
	}
}

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter or is otherwise malformed.
	ErrInvalidRequest = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidGrant is returned when the provided grant (resource owner
	// credentials, refresh token, code) is invalid, expired or revoked.
	ErrInvalidGrant = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidGrant,
		Description: "invalid grant",
	}

	// ErrUnsupportedGrantType is returned for grant types this server does
	// not implement.
	ErrUnsupportedGrantType = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnsupportedGrantType,
		Description: "unsupported grant type",
	}

	// ErrInvalidContentType is returned when the token endpoint receives
	// anything but application/x-www-form-urlencoded.
	ErrInvalidContentType = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content type must be application/x-www-form-urlencoded",
	}

	// ErrInvalidFormBody is returned when the form body cannot be parsed.
	ErrInvalidFormBody = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "malformed form body",
	}

	// ErrServerError is returned for unexpected infrastructure failures,
	// e.g. the account directory being unavailable.
	ErrServerError = &Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
