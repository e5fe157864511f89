package http

import (
	"net/http"
	"time"

	"github.com/wardenid/warden/internal/auth/store"
	"github.com/wardenid/warden/pkg/httpx"
)

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}

type healthChecks struct {
	Directory string `json:"directory"`
}

// LivezHandler is the liveness probe: it returns 200 whenever the process
// is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler is the readiness probe: it reports degraded when the
// account directory is unreachable.
func ReadyzHandler(startTime time.Time, version string, dir store.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{Directory: "ok"}
		status := "ok"
		statusCode := http.StatusOK

		if err := dir.Ping(r.Context()); err != nil {
			checks.Directory = "error: " + err.Error()
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
