package domain

import "strings"

// GrantType identifies the OAuth2 flow a token request claims to use.
type GrantType int

const (
	GrantUnknown GrantType = iota
	GrantPassword
	GrantClientCredentials
	GrantRefreshToken
	GrantAuthorizationCode
	GrantDeviceCode
)

// ParseGrantType maps the wire value of grant_type onto the enum.
// Unrecognised values map to GrantUnknown so the dispatcher can reject
// them as unsupported_grant_type.
func ParseGrantType(s string) GrantType {
	switch s {
	case "password":
		return GrantPassword
	case "client_credentials":
		return GrantClientCredentials
	case "refresh_token":
		return GrantRefreshToken
	case "authorization_code":
		return GrantAuthorizationCode
	case "urn:ietf:params:oauth:grant-type:device_code":
		return GrantDeviceCode
	default:
		return GrantUnknown
	}
}

func (g GrantType) String() string {
	switch g {
	case GrantPassword:
		return "password"
	case GrantClientCredentials:
		return "client_credentials"
	case GrantRefreshToken:
		return "refresh_token"
	case GrantAuthorizationCode:
		return "authorization_code"
	case GrantDeviceCode:
		return "urn:ietf:params:oauth:grant-type:device_code"
	default:
		return "unknown"
	}
}

// GrantOrigin is the enum-tagged variant stored in a principal's token_type
// marker claim. Refresh tokens re-dispatch on it: a refresh token minted for
// a client_credentials principal must rebuild a client_credentials-shaped
// principal, never a password-shaped one.
type GrantOrigin int

const (
	OriginUnknown GrantOrigin = iota
	OriginPassword
	OriginClientCredentials
)

// ParseGrantOrigin decodes the marker claim value back into the tagged enum.
func ParseGrantOrigin(s string) GrantOrigin {
	switch s {
	case GrantPassword.String():
		return OriginPassword
	case GrantClientCredentials.String():
		return OriginClientCredentials
	default:
		return OriginUnknown
	}
}

func (o GrantOrigin) String() string {
	switch o {
	case OriginPassword:
		return GrantPassword.String()
	case OriginClientCredentials:
		return GrantClientCredentials.String()
	default:
		return "unknown"
	}
}

// TokenRequest is the already-parsed form of a token endpoint call. It is
// immutable once constructed; the dispatcher only reads it.
type TokenRequest struct {
	GrantType GrantType
	ClientID  string
	Username  string
	Password  string

	// Scope is the raw space-delimited scope string as received.
	Scope string

	// Principal carries the claims principal recovered from the presented
	// refresh token, authorization code or device code by the authentication
	// layer that runs before the dispatcher. Nil for password and
	// client_credentials grants.
	Principal *Principal
}

// Scopes parses the raw scope string into its individual scope tokens.
// Returns nil when no scope was requested.
func (r TokenRequest) Scopes() []string {
	s := strings.TrimSpace(r.Scope)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
