package oauthx

// TokenResponse is the OAuth2 token endpoint success response per RFC 6749,
// extended with the OIDC id_token member.
type TokenResponse struct {
	// AccessToken authenticates API requests against resource servers.
	AccessToken string `json:"access_token"`

	// IDToken is the OIDC identity token carrying identity-destined claims.
	IDToken string `json:"id_token,omitempty"`

	// RefreshToken obtains new access tokens without re-authenticating.
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// Scope is the space-delimited list of granted scopes.
	Scope string `json:"scope,omitempty"`
}
