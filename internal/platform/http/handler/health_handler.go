// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles /healthz. It reports liveness only and never touches a dependency.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Probe checks one dependency. A nil error means ready.
type Probe func(ctx context.Context) error

// Readiness answers /readyz by running every probe under a shared timeout.
type Readiness struct {
	probes  map[string]Probe
	timeout time.Duration
}

// NewReadiness creates a Readiness. A non-positive timeout defaults to 2s.
func NewReadiness(timeout time.Duration, probes map[string]Probe) *Readiness {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Readiness{probes: probes, timeout: timeout}
}

// Ready returns 200 when every probe passes, otherwise 503 with the failing names.
func (r *Readiness) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), r.timeout)
	defer cancel()

	names := make([]string, 0, len(r.probes))
	for name := range r.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	ready := true
	for _, name := range names {
		if err := r.probes[name](ctx); err != nil {
			slog.Warn("readiness probe failed", "probe", name, "error", err)
			checks[name] = "unavailable"
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
