// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"bottlescan/internal/core/version"
	modkit "bottlescan/internal/modkit"
	"bottlescan/internal/modkit/httpkit"
	metahttp "bottlescan/internal/services/api/meta/http"
)

// Ports feed the readiness and service endpoints; all fields are optional
type Ports struct {
	Checks []metahttp.Check
	Stats  metahttp.Stats
}

// Module implements the modkit.Module interface
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)
	clock := deps.Now()
	m := &Module{startedAt: clock()}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Service,
			StartedAt:   m.startedAt,
			Now:         clock,
			Checks:      p.Checks,
			Stats:       p.Stats,
		})
	})
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
