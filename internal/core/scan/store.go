package scan

import (
	"context"
	"sync"

	perr "bottlescan/internal/platform/errors"
)

// Store is an in-memory, insertion-ordered, append-only scan log. Appends are
// atomic and readers always get a consistent snapshot copy.
type Store struct {
	mu    sync.RWMutex
	scans []Scan
	ids   map[string]struct{}
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Append adds sc at the end. Content duplicates are kept; a reused id is a Conflict.
func (s *Store) Append(sc Scan) error {
	if sc.ID == "" {
		return perr.WithField(perr.Validationf("scan id is required"), "id")
	}
	if err := (DetectionResponse{Confidence: sc.Confidence}).Validate(); err != nil {
		return perr.WithField(perr.Validationf("scan confidence %v outside [0,1]", sc.Confidence), "confidence")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[sc.ID]; dup {
		return perr.Conflictf("scan %s already recorded", sc.ID)
	}
	s.ids[sc.ID] = struct{}{}
	s.scans = append(s.scans, sc.Clone())
	return nil
}

// All returns a copy of every scan, oldest first
func (s *Store) All() []Scan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Scan, len(s.scans))
	for i, sc := range s.scans {
		out[i] = sc.Clone()
	}
	return out
}

// Len returns the number of scans
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scans)
}

// Source lists the scan set a map view works on
type Source interface {
	List(ctx context.Context) ([]Scan, error)
}

// LocalSource reads a session's own append-only log
type LocalSource struct{ Store *Store }

// List implements Source
func (l LocalSource) List(context.Context) ([]Scan, error) {
	if l.Store == nil {
		return nil, nil
	}
	return l.Store.All(), nil
}
