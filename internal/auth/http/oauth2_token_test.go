package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardenid/warden/internal/auth/domain"
	"github.com/wardenid/warden/internal/auth/issuer"
	"github.com/wardenid/warden/internal/auth/service"
	"github.com/wardenid/warden/internal/auth/store/drivers/sqlite"
	"github.com/wardenid/warden/pkg/cryptox"
	"github.com/wardenid/warden/pkg/idx"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func newTestHandler(t *testing.T) (*TokenHandler, *sqlite.Store) {
	t.Helper()

	db, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.ApplyMigrations())

	unsigned := &issuer.Unsigned{
		Issuer:     "warden-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}

	handler := &TokenHandler{
		Grants: &service.GrantService{
			Directory: db,
			Validator: &service.EligibilityValidator{Accounts: db.Accounts()},
			Builder: &service.PrincipalBuilder{
				Assembler: &service.ClaimAssembler{Roles: db.Roles()},
				Router:    &service.DestinationRouter{},
			},
		},
		Issuer: unsigned,
		Authn:  unsigned,
	}
	return handler, db
}

func seedAlice(t *testing.T, db *sqlite.Store) domain.Account {
	t.Helper()

	hash, err := cryptox.HashPassword("correct-horse")
	require.NoError(t, err)

	now := time.Now()
	acct := domain.Account{
		ID:             idx.New().String(),
		Username:       "alice",
		Email:          "alice@example.com",
		PasswordHash:   hash,
		SignInAllowed:  true,
		LockoutEnabled: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Accounts().CreateAccount(context.Background(), acct))
	return acct
}

func postForm(t *testing.T, handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) tokenResponse {
	t.Helper()

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestTokenEndpointPasswordGrant(t *testing.T) {
	t.Parallel()

	handler, db := newTestHandler(t)
	seedAlice(t, db)

	t.Run("success", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"password"},
			"client_id":  {"web"},
			"username":   {"alice"},
			"password":   {"correct-horse"},
			"scope":      {"profile email"},
		})

		resp := decodeToken(t, rec)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.IDToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.Equal(t, "Bearer", resp.TokenType)
		require.Equal(t, 900, resp.ExpiresIn)
		require.Equal(t, "profile email", resp.Scope)

		// Token responses must never be cached.
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		require.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"password"},
			"client_id":  {"web"},
			"username":   {"alice"},
			"password":   {"wrong"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "invalid_grant", resp.Error)
		require.Equal(t, "invalid credentials", resp.Description)
	})

	t.Run("unknown user", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"password"},
			"client_id":  {"web"},
			"username":   {"nobody"},
			"password":   {"whatever"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "invalid_grant", resp.Error)
		require.Equal(t, "the token is no longer valid", resp.Description)
	})

	t.Run("missing username", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"password"},
			"client_id":  {"web"},
			"password":   {"correct-horse"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_request", decodeError(t, rec).Error)
	})
}

func TestTokenEndpointRequestValidation(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)

	t.Run("unknown grant type", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"implicit"},
			"client_id":  {"web"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "unsupported_grant_type", decodeError(t, rec).Error)
	})

	t.Run("missing client_id", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"password"},
			"username":   {"alice"},
			"password":   {"pw"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_request", decodeError(t, rec).Error)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/oauth2/token",
			strings.NewReader(`{"grant_type":"password"}`))
		req.Header.Set("Content-Type", "application/json")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_request", decodeError(t, rec).Error)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type": {"refresh_token"},
			"client_id":  {"web"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "invalid_request", decodeError(t, rec).Error)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type":    {"refresh_token"},
			"client_id":     {"web"},
			"refresh_token": {"not-a-token"},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "invalid_grant", resp.Error)
		require.Equal(t, "the token is no longer valid", resp.Description)
	})
}

func TestTokenEndpointRefreshCycle(t *testing.T) {
	t.Parallel()

	handler, db := newTestHandler(t)
	acct := seedAlice(t, db)

	issued := decodeToken(t, postForm(t, handler, url.Values{
		"grant_type": {"password"},
		"client_id":  {"web"},
		"username":   {"alice"},
		"password":   {"correct-horse"},
		"scope":      {"email"},
	}))

	t.Run("refresh succeeds with a fresh token set", func(t *testing.T) {
		rec := postForm(t, handler, url.Values{
			"grant_type":    {"refresh_token"},
			"client_id":     {"web"},
			"scope":         {"email"},
			"refresh_token": {issued.RefreshToken},
		})

		refreshed := decodeToken(t, rec)
		require.NotEmpty(t, refreshed.AccessToken)
		require.NotEmpty(t, refreshed.RefreshToken)
		require.Equal(t, "email", refreshed.Scope)
	})

	t.Run("refresh fails after sign-in revoked", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, db.Accounts().SetSignInAllowed(ctx, acct.ID, false))
		t.Cleanup(func() {
			require.NoError(t, db.Accounts().SetSignInAllowed(ctx, acct.ID, true))
		})

		rec := postForm(t, handler, url.Values{
			"grant_type":    {"refresh_token"},
			"client_id":     {"web"},
			"refresh_token": {issued.RefreshToken},
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		require.Equal(t, "invalid_grant", resp.Error)
		require.Equal(t, "the user is no longer allowed to sign in", resp.Description)
	})
}

func TestTokenEndpointClientCredentials(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t)

	issued := decodeToken(t, postForm(t, handler, url.Values{
		"grant_type": {"client_credentials"},
		"client_id":  {"reporting-batch"},
	}))
	require.NotEmpty(t, issued.AccessToken)
	require.NotEmpty(t, issued.RefreshToken)

	// A refresh of a client credentials token re-runs the client flow.
	refreshed := decodeToken(t, postForm(t, handler, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {"reporting-batch"},
		"refresh_token": {issued.RefreshToken},
	}))
	require.NotEmpty(t, refreshed.AccessToken)
}
