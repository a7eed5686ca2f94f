package service

import (
	"context"
	"sync/atomic"
	"time"

	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/services/session/domain"
)

// Session owns everything one client's scans touch: the append-only store,
// the last known location, the in-flight flag and the live feed
type Session struct {
	id        string
	mode      domain.Mode
	createdAt time.Time

	store    *scan.Store
	location *geo.Latest
	source   scan.Source
	hub      *Hub

	busy   atomic.Bool
	closed atomic.Bool
}

// ID returns the session id
func (s *Session) ID() string { return s.id }

// Mode reports where the map reads scans from
func (s *Session) Mode() domain.Mode { return s.mode }

// Store returns the session's scan log
func (s *Session) Store() *scan.Store { return s.store }

// Location is the session's geolocation provider
func (s *Session) Location() *geo.Latest { return s.location }

// Hub returns the live feed
func (s *Session) Hub() *Hub { return s.hub }

// Begin flips the in-flight flag; a second detection while one is running is a Conflict
func (s *Session) Begin() error {
	if s.closed.Load() {
		return perr.NotFoundf("session %s is closed", s.id)
	}
	if !s.busy.CompareAndSwap(false, true) {
		return perr.Conflictf("a detection is already in progress")
	}
	return nil
}

// End clears the in-flight flag
func (s *Session) End() { s.busy.Store(false) }

// Busy reports whether a detection is in flight
func (s *Session) Busy() bool { return s.busy.Load() }

// Closed reports whether the session has been closed
func (s *Session) Closed() bool { return s.closed.Load() }

// Record appends sc and pushes it to viewers. Results arriving after the
// session closed are discarded.
func (s *Session) Record(sc scan.Scan) error {
	if s.closed.Load() {
		return perr.NotFoundf("session %s is closed, result discarded", s.id)
	}
	if err := s.store.Append(sc); err != nil {
		return err
	}
	s.hub.Broadcast(sc)
	return nil
}

// Scans lists the map's scan set from the session's source
func (s *Session) Scans(ctx context.Context) ([]scan.Scan, error) {
	return s.source.List(ctx)
}

// Info snapshots the session
func (s *Session) Info(ctx context.Context) domain.Info {
	return domain.Info{
		ID:        s.id,
		Source:    s.mode,
		CreatedAt: s.createdAt,
		Scans:     s.store.Len(),
		Busy:      s.Busy(),
		Viewers:   s.hub.Viewers(),
		Location:  s.location.Acquire(ctx),
	}
}

func (s *Session) close() {
	if s.closed.CompareAndSwap(false, true) {
		s.hub.Close()
	}
}
