// Package geo models device coordinates and the best-effort providers that
// obtain them. A provider never fails: nil means "no location".
package geo

import (
	"context"
	"math"
	"sync"

	perr "bottlescan/internal/platform/errors"
)

// Coordinates is a WGS84 position in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate checks latitude and longitude ranges
func (c Coordinates) Validate() error {
	switch {
	case math.IsNaN(c.Latitude) || c.Latitude < -90 || c.Latitude > 90:
		return perr.WithField(perr.Validationf("latitude %v out of range [-90,90]", c.Latitude), "latitude")
	case math.IsNaN(c.Longitude) || c.Longitude < -180 || c.Longitude > 180:
		return perr.WithField(perr.Validationf("longitude %v out of range [-180,180]", c.Longitude), "longitude")
	}
	return nil
}

// New returns validated coordinates
func New(lat, lng float64) (*Coordinates, error) {
	c := Coordinates{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Clone returns an independent copy of c (nil stays nil)
func (c *Coordinates) Clone() *Coordinates {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// OrSentinel substitutes (0,0) for a missing location, for payloads whose
// coordinate fields are not optional
func OrSentinel(c *Coordinates) Coordinates {
	if c == nil {
		return Coordinates{}
	}
	return *c
}

// IsSentinel reports whether c carries no usable position: nil or the (0,0)
// stand-in written by OrSentinel
func IsSentinel(c *Coordinates) bool {
	return c == nil || (c.Latitude == 0 && c.Longitude == 0)
}

// Provider resolves the current position once per call. Denial, timeout and
// missing capability all resolve to nil.
type Provider interface {
	Acquire(ctx context.Context) *Coordinates
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context) *Coordinates

// Acquire implements Provider
func (f ProviderFunc) Acquire(ctx context.Context) *Coordinates { return f(ctx) }

// Static is a client-reported position; a nil Coords is a reported denial
type Static struct{ Coords *Coordinates }

// Acquire implements Provider
func (s Static) Acquire(context.Context) *Coordinates { return s.Coords.Clone() }

// Unavailable always resolves to nil
var Unavailable Provider = Static{}

type once struct {
	p    Provider
	o    sync.Once
	last *Coordinates
}

// Once memoizes p: the underlying request happens on the first Acquire only
// and every later call returns that result, nil included
func Once(p Provider) Provider {
	if p == nil {
		p = Unavailable
	}
	return &once{p: p}
}

func (o *once) Acquire(ctx context.Context) *Coordinates {
	o.o.Do(func() { o.last = o.p.Acquire(ctx) })
	return o.last.Clone()
}

// Latest holds the most recent client report and falls back to another
// provider until the client has reported anything
type Latest struct {
	mu       sync.RWMutex
	reported bool
	coords   *Coordinates
	fallback Provider
}

// NewLatest returns a Latest that consults fallback (may be nil) until Report is called
func NewLatest(fallback Provider) *Latest {
	if fallback == nil {
		fallback = Unavailable
	}
	return &Latest{fallback: fallback}
}

// Report records the client's position; nil records a denial
func (l *Latest) Report(c *Coordinates) {
	l.mu.Lock()
	l.reported = true
	l.coords = c.Clone()
	l.mu.Unlock()
}

// Acquire implements Provider
func (l *Latest) Acquire(ctx context.Context) *Coordinates {
	l.mu.RLock()
	reported, c := l.reported, l.coords.Clone()
	l.mu.RUnlock()
	if reported {
		return c
	}
	return l.fallback.Acquire(ctx)
}
