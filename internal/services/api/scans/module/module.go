// Package module wires scans into the API using modkit
package module

import (
	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/core/capture"
	modkit "bottlescan/internal/modkit"
	"bottlescan/internal/modkit/httpkit"
	"bottlescan/internal/services/api/scans/domain"
	scanshttp "bottlescan/internal/services/api/scans/http"
	scanssvc "bottlescan/internal/services/api/scans/service"
)

// Ports are the collaborators the scans module needs, injected with
// modkit.WithPorts
type Ports struct {
	Sessions scanssvc.Sessions
	Detector classifier.Detector
	Capture  *capture.Source
	Map      scanssvc.MapOptions
}

// Module implements the scans module
type Module struct {
	modkit.Base
	svc scanssvc.Service
}

// New constructs the scans module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("scans"), modkit.WithPrefix("/scans")}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok {
		panic("scans module requires modkit.WithPorts(module.Ports{...})")
	}
	if p.Capture == nil {
		p.Capture = capture.New(capture.Options{})
	}

	svc := scanssvc.New(scanssvc.Options{
		Sessions: p.Sessions,
		Detector: p.Detector,
		Capture:  p.Capture,
		Clock:    deps.Now(),
		Map:      p.Map,
	})

	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		scanshttp.Register(r, m.svc, p.Capture.MaxBytes())
	})
	return m
}

// Ports exposes the scan workflows to other modules
func (m *Module) Ports() any { return domain.ServicePort(m.svc) }
