package http

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/issuer"
	"github.com/wardenid/warden/internal/auth/service"
	"github.com/wardenid/warden/pkg/httpx"
	"github.com/wardenid/warden/pkg/oauthx"
	"github.com/wardenid/warden/pkg/slogx"
)

// TokenHandler serves POST /v1/oauth2/token.
// Accepts application/x-www-form-urlencoded per the RFC 6749 framework,
// dispatches the grant through the engine and hands the resulting principal
// to the issuer.
type TokenHandler struct {
	Grants *service.GrantService
	Issuer issuer.Issuer

	// Authn recovers the principal embedded in refresh tokens,
	// authorization codes and device codes before dispatch.
	Authn issuer.Authenticator
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		oauthx.ErrInvalidContentType.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		oauthx.ErrInvalidFormBody.WriteError(w)
		return
	}

	grantType := domain.ParseGrantType(r.Form.Get("grant_type"))
	if grantType == domain.GrantUnknown {
		oauthx.ErrUnsupportedGrantType.WriteError(w)
		return
	}

	req, ok := h.buildRequest(w, r, grantType, r.Form)
	if !ok {
		return
	}

	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, err := h.Grants.Exchange(ctx, req)
	if err != nil {
		writeGrantError(w, log, err)
		return
	}

	tokens, err := h.Issuer.Issue(ctx, principal)
	if err != nil {
		log.Error("token issuance failed", "err", err)
		oauthx.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, oauthx.TokenResponse{
		AccessToken:  tokens.AccessToken,
		IDToken:      tokens.IDToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(tokens.ExpiresIn.Seconds()),
		Scope:        strings.TrimSpace(tokens.Scope),
	})
}

// buildRequest assembles the immutable TokenRequest for the dispatcher.
// Grants that present a previously issued artifact (refresh token, codes)
// have it authenticated here, standing in for the authentication middleware
// of a full deployment. Returns ok=false after writing an error response.
func (h *TokenHandler) buildRequest(
	w http.ResponseWriter,
	r *http.Request,
	grantType domain.GrantType,
	form url.Values,
) (domain.TokenRequest, bool) {
	req := domain.TokenRequest{
		GrantType: grantType,
		ClientID:  strings.TrimSpace(form.Get("client_id")),
		Username:  strings.TrimSpace(form.Get("username")),
		Password:  form.Get("password"),
		Scope:     strings.TrimSpace(form.Get("scope")),
	}

	if req.ClientID == "" {
		oauthx.ErrInvalidRequest.WriteError(w)
		return req, false
	}

	var artifact string
	switch grantType {
	case domain.GrantRefreshToken:
		artifact = form.Get("refresh_token")
	case domain.GrantAuthorizationCode:
		artifact = form.Get("code")
	case domain.GrantDeviceCode:
		artifact = form.Get("device_code")
	default:
		return req, true
	}

	if artifact == "" {
		oauthx.ErrInvalidRequest.WriteError(w)
		return req, false
	}

	principal, err := h.Authn.Authenticate(r.Context(), artifact)
	if err != nil {
		oauthx.ErrInvalidGrant.WithDescription("the token is no longer valid").WriteError(w)
		return req, false
	}
	req.Principal = principal

	return req, true
}

func writeGrantError(w http.ResponseWriter, log *slog.Logger, err error) {
	var denied *service.SignInDeniedError
	switch {
	case errors.As(err, &denied):
		oauthx.ErrInvalidGrant.WithDescription(denied.Reason.Description()).WriteError(w)
	case errors.Is(err, service.ErrUnknownTokenOrigin):
		oauthx.ErrInvalidRequest.WithDescription("authentication scheme is not found").WriteError(w)
	case errors.Is(err, service.ErrMalformedRequest):
		oauthx.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrUnsupportedGrantType):
		oauthx.ErrUnsupportedGrantType.WriteError(w)
	default:
		log.Error("grant exchange failed", "err", err)
		oauthx.ErrServerError.WriteError(w)
	}
}
