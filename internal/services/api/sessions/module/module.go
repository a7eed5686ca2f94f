// Package module wires the session registry into the API using modkit
package module

import (
	modkit "bottlescan/internal/modkit"
	"bottlescan/internal/modkit/httpkit"
	"bottlescan/internal/platform/net/middleware"
	sessionshttp "bottlescan/internal/services/api/sessions/http"
	"bottlescan/internal/services/session/domain"
	sessionsvc "bottlescan/internal/services/session/service"
)

// Ports is what the sessions module offers other modules and the router stack
type Ports struct {
	Sessions domain.Port
	Guard    middleware.SessionPort
	Registry *sessionsvc.Registry
}

// Module implements the sessions module
type Module struct {
	modkit.Base
	reg *sessionsvc.Registry
}

// New constructs the sessions module around reg, which main owns
func New(_ modkit.Deps, reg *sessionsvc.Registry, opts ...modkit.Option) modkit.Module {
	if reg == nil {
		panic("sessions module requires a non nil registry")
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sessions"), modkit.WithPrefix("/sessions")}, opts...)...)

	m := &Module{reg: reg}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		sessionshttp.Register(r, m.reg)
	})
	return m
}

// Ports exposes the registry through its narrow ports
func (m *Module) Ports() any {
	return Ports{Sessions: m.reg, Guard: m.reg, Registry: m.reg}
}
