// Package api provides the HTTP API for the application
package api

import (
	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/version"
	"bottlescan/internal/platform/config"
	"bottlescan/internal/platform/logger"
	phttp "bottlescan/internal/platform/net/http"
	"bottlescan/internal/platform/net/middleware"
	ptime "bottlescan/internal/platform/time"

	"bottlescan/internal/modkit"
	"bottlescan/internal/modkit/httpkit"
	"bottlescan/internal/modkit/module"
	"bottlescan/internal/modkit/swaggerkit"

	metahttp "bottlescan/internal/services/api/meta/http"
	metamod "bottlescan/internal/services/api/meta/module"
	scanshttp "bottlescan/internal/services/api/scans/http"
	scansmod "bottlescan/internal/services/api/scans/module"
	scanssvc "bottlescan/internal/services/api/scans/service"
	sessionshttp "bottlescan/internal/services/api/sessions/http"
	sessionsmod "bottlescan/internal/services/api/sessions/module"
	sessionsvc "bottlescan/internal/services/session/service"
)

// Options are the API options
type Options struct {
	Config   config.Conf
	Logger   *logger.Logger
	Clock    ptime.Clock
	Sessions *sessionsvc.Registry
	Detector classifier.Detector
	Capture  *capture.Source
	Map      scanssvc.MapOptions
	// Checks are extra readiness probes; the classifier is added when it can Ping
	Checks []metahttp.Check
	CORS   middleware.CORSOptions

	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router. It must run before
// any other route is added to r.
func Mount(r phttp.Router, opt Options) {
	r.Use(httpkit.Heartbeat("/health"))

	deps := modkit.Deps{
		Log:   opt.Logger,
		Cfg:   opt.Config,
		Clock: opt.Clock,
	}

	// sessions own the registry; scans and the stack consume its ports
	sessions := sessionsmod.New(deps, opt.Sessions)
	sp := module.MustPortsOf[sessionsmod.Ports](sessions)

	// only scan routes act on a session; a stale id must not block creating a new one
	scans := scansmod.New(deps, modkit.WithPorts(scansmod.Ports{
		Sessions: sp.Registry,
		Detector: opt.Detector,
		Capture:  opt.Capture,
		Map:      opt.Map,
	}), modkit.WithMiddlewares(middleware.SessionID(sp.Guard)))

	checks := append([]metahttp.Check(nil), opt.Checks...)
	if p, ok := opt.Detector.(metahttp.Pinger); ok {
		checks = append([]metahttp.Check{{Name: "classifier", Pinger: p}}, checks...)
	}
	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{
		Checks: checks,
		Stats: func() map[string]int {
			return map[string]int{"sessions": sp.Registry.Len()}
		},
	}))

	mods := []module.Module{meta, sessions, scans}

	swaggerkit.Mount(r, opt.EnableSwagger, Doc())
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{CORS: opt.CORS})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}

// Doc is the OpenAPI document served at /api/docs
func Doc() swaggerkit.Doc {
	var ops []swaggerkit.Op
	ops = append(ops, metahttp.Docs()...)
	ops = append(ops, sessionshttp.Docs()...)
	ops = append(ops, scanshttp.Docs()...)
	return swaggerkit.Doc{
		Title:     "Bottlescan API",
		Version:   version.Info().Version,
		ServerURL: "/api/v1",
		Ops:       ops,
	}
}
