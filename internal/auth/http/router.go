package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wardenid/warden/internal/auth/issuer"
	"github.com/wardenid/warden/internal/auth/service"
	"github.com/wardenid/warden/internal/auth/store"
	"github.com/wardenid/warden/pkg/httpx"
	"github.com/wardenid/warden/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	directory store.Directory

	GrantService *service.GrantService
	Issuer       issuer.Issuer
	Authn        issuer.Authenticator
}

func NewRouter(buildVersion string, dir store.Directory, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		directory:    dir,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOAuth2()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOAuth2() {
	// POST /token - strict rate limit by IP: every grant type on this
	// endpoint is an authentication attempt.
	tokenHandler := &TokenHandler{
		Grants: r.GrantService,
		Issuer: r.Issuer,
		Authn:  r.Authn,
	}
	r.Mux.Handle("POST /v1/oauth2/token",
		httpx.Chain(tokenHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.directory),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
