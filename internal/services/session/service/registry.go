// Package service holds the session registry and per-session state
package service

import (
	"context"
	"strings"
	"sync"

	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
	ptime "bottlescan/internal/platform/time"
	"bottlescan/internal/services/session/domain"

	"github.com/google/uuid"
)

// newID is swapped in tests
var newID = uuid.NewString

// Options configures a Registry
type Options struct {
	// Mode picks the scan source for new sessions, default local
	Mode domain.Mode
	// Remote is required when Mode is remote
	Remote scan.Source
	// Geo is consulted once per session until the client reports a position
	Geo   geo.Provider
	Clock ptime.Clock
	Log   *logger.Logger
}

// Registry tracks live sessions. It is created in main and passed down.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
}

var _ domain.Port = (*Registry)(nil)

// NewRegistry validates o and returns an empty registry
func NewRegistry(o Options) (*Registry, error) {
	if o.Mode == "" {
		o.Mode = domain.ModeLocal
	}
	switch o.Mode {
	case domain.ModeLocal:
	case domain.ModeRemote:
		if o.Remote == nil {
			return nil, perr.InvalidArgf("remote session source needs a scan feed url")
		}
	default:
		return nil, perr.InvalidArgf("unknown session source %q", o.Mode)
	}
	if o.Clock == nil {
		o.Clock = ptime.System
	}
	if o.Log == nil {
		o.Log = logger.Named("session")
	}
	return &Registry{sessions: make(map[string]*Session), opts: o}, nil
}

// Create starts a new session
func (r *Registry) Create(ctx context.Context) *Session {
	s := &Session{
		id:        newID(),
		mode:      r.opts.Mode,
		createdAt: r.opts.Clock().UTC(),
		store:     scan.NewStore(),
		location:  geo.NewLatest(geo.Once(r.opts.Geo)),
	}
	s.hub = NewHub(r.opts.Log.With().Str("session_id", s.id).Logger())
	s.source = scan.LocalSource{Store: s.store}
	if s.mode == domain.ModeRemote {
		s.source = r.opts.Remote
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	logger.C(ctx).Info().Str("session_id", s.id).Str("source", string(s.mode)).Msg("session created")
	return s
}

// Get returns a live session or NotFound
func (r *Registry) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, perr.WithField(perr.Validationf("session id is required"), "session")
	}
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, perr.NotFoundf("session %s not found", id)
	}
	return s, nil
}

// Close removes the session; in-flight detections for it are discarded
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return perr.NotFoundf("session %s not found", id)
	}
	s.close()
	logger.C(ctx).Info().Str("session_id", id).Int("scans", s.store.Len()).Msg("session closed")
	return nil
}

// Check implements the session middleware port
func (r *Registry) Check(_ context.Context, id string) error {
	_, err := r.Get(id)
	return err
}

// Info implements domain.Port
func (r *Registry) Info(ctx context.Context, id string) (domain.Info, error) {
	s, err := r.Get(id)
	if err != nil {
		return domain.Info{}, err
	}
	return s.Info(ctx), nil
}

// ReportLocation records the browser's geolocation outcome for the session
func (r *Registry) ReportLocation(ctx context.Context, id string, in domain.LocationInput) (domain.Info, error) {
	s, err := r.Get(id)
	if err != nil {
		return domain.Info{}, err
	}
	if in.Denied {
		s.location.Report(nil)
		return s.Info(ctx), nil
	}
	if in.Latitude == nil || in.Longitude == nil {
		return domain.Info{}, perr.WithField(perr.Validationf("latitude and longitude are required unless denied"), "latitude")
	}
	c, err := geo.New(*in.Latitude, *in.Longitude)
	if err != nil {
		return domain.Info{}, err
	}
	s.location.Report(c)
	return s.Info(ctx), nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll closes every session, used on shutdown
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range all {
		s.close()
	}
	logger.C(ctx).Info().Int("sessions", len(all)).Msg("sessions closed")
}
