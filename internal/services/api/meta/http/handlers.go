// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"bottlescan/internal/core/version"
	"bottlescan/internal/modkit/httpkit"
	"bottlescan/internal/modkit/swaggerkit"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Check names one readiness dependency. A nil Pinger is reported as skipped.
type Check struct {
	Name   string
	Pinger Pinger
}

// Stats reports live counters shown on /meta/service
type Stats func() map[string]int

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Now         func() time.Time
	Checks      []Check
	Stats       Stats
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// Docs lists the meta endpoints for the served OpenAPI document
func Docs() []swaggerkit.Op {
	return []swaggerkit.Op{
		{Method: http.MethodGet, Path: "/meta/health", Tag: "meta", Summary: "Health check"},
		{Method: http.MethodGet, Path: "/meta/ready", Tag: "meta", Summary: "Readiness probe with dependency checks"},
		{Method: http.MethodGet, Path: "/meta/version", Tag: "meta", Summary: "Build and version info"},
		{Method: http.MethodGet, Path: "/meta/service", Tag: "meta", Summary: "Service info and uptime"},
	}
}

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"bottlescan-api"`
	Started string `json:"started"  example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"      example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"classifier"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5000: connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string         `json:"name"    example:"bottlescan-api"`
	Started string         `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64          `json:"uptime"  example:"300"`
	Stats   map[string]int `json:"stats,omitempty"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make([]ReadyCheck, 0, len(h.deps.Checks))
	overall := "ok"
	for _, c := range h.deps.Checks {
		rc := ReadyCheck{Name: c.Name, Status: "skipped"}
		if c.Pinger != nil {
			rc.Status = "ok"
			if err := c.Pinger.Ping(ctx); err != nil {
				rc.Status, rc.Error = "fail", err.Error()
			}
		}
		switch {
		case rc.Status == "fail":
			overall = "fail"
		case rc.Status == "skipped" && overall == "ok":
			overall = "degraded"
		}
		checks = append(checks, rc)
	}

	return ReadyResponse{
		Status: overall,
		Checks: checks,
		Now:    h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	out := ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}
	if h.deps.Stats != nil {
		out.Stats = h.deps.Stats()
	}
	return out, nil
}
