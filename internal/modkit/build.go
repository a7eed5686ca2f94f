package modkit

import (
	"net/http"
	"strings"

	"bottlescan/internal/modkit/httpkit"
	str "bottlescan/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// router hooks set via options and exposed to modules
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	// defaults for hooks
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Base implements the routing half of Module for a Built config. Modules
// embed it and supply their own Ports.
type Base struct {
	b   Built
	own func(httpkit.Router)
}

// NewBase pairs b with the module's own route registration; routes from
// WithRegister are mounted after own
func NewBase(b Built, own func(httpkit.Router)) Base {
	return Base{b: b, own: own}
}

// MountRoutes mounts the module under its prefix with its middlewares
func (m Base) MountRoutes(r httpkit.Router) {
	r.Route(m.Prefix(), func(rr httpkit.Router) {
		if len(m.b.Mw) > 0 {
			rr.Use(m.b.Mw...)
		}
		if m.b.Subrouter != nil {
			rr = m.b.Subrouter(rr)
		}
		if m.own != nil {
			m.own(rr)
		}
		if m.b.Register != nil {
			m.b.Register(rr)
		}
	})
}

// Name returns the module name, defaulting to the prefix without slashes
func (m Base) Name() string { return str.Or(m.b.Name, strings.Trim(m.b.Prefix, "/ ")) }

// Prefix returns the module route prefix
func (m Base) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Middlewares returns the module middlewares
func (m Base) Middlewares() []func(http.Handler) http.Handler { return m.b.Mw }

// InjectedPorts returns whatever WithPorts supplied
func (m Base) InjectedPorts() any { return m.b.Ports }
