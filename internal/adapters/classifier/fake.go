package classifier

import (
	"context"
	"sync"

	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
)

// Call is one recorded Fake invocation
type Call struct {
	Image     capture.Image
	Location  *geo.Coordinates
	BrandHint string
}

// Fake is an in-memory Detector. It returns Response, or Err when set.
// Block, when non-nil, is waited on before answering.
type Fake struct {
	Response scan.DetectionResponse
	Err      error
	Block    chan struct{}

	mu    sync.Mutex
	calls []Call
}

// Detect implements Detector
func (f *Fake) Detect(ctx context.Context, img capture.Image, loc *geo.Coordinates, brandHint string) (scan.DetectionResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Image: img, Location: loc.Clone(), BrandHint: brandHint})
	f.mu.Unlock()

	if f.Block != nil {
		select {
		case <-f.Block:
		case <-ctx.Done():
			return scan.DetectionResponse{}, ctx.Err()
		}
	}
	if f.Err != nil {
		return scan.DetectionResponse{}, f.Err
	}
	if err := f.Response.Validate(); err != nil {
		return scan.DetectionResponse{}, err
	}
	return f.Response, nil
}

// Calls returns a copy of the recorded calls
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Ping always succeeds
func (f *Fake) Ping(context.Context) error { return nil }
