// Package modkit provides module wiring and core deps
package modkit

import (
	"bottlescan/internal/platform/config"
	"bottlescan/internal/platform/logger"
	ptime "bottlescan/internal/platform/time"
)

// Deps holds core dependencies passed to modules
// this is wiring only; domain collaborators travel as ports via WithPorts
type Deps struct {
	Log   *logger.Logger
	Cfg   config.Conf
	Clock ptime.Clock
}

// Logger returns Log or a component logger named after the module
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("component", component).Logger()
		return &l
	}
	return logger.Named(component)
}

// Now returns Clock or the system clock
func (d Deps) Now() ptime.Clock {
	if d.Clock != nil {
		return d.Clock
	}
	return ptime.System
}
