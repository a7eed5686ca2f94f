// Package service contains the scan workflows: capture, detect, record and
// the map reads over a session's scan set
package service

import (
	"context"
	"time"

	"bottlescan/internal/adapters/classifier"
	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	"bottlescan/internal/core/scanview"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
	ptime "bottlescan/internal/platform/time"
	"bottlescan/internal/services/api/scans/domain"
	sessionsvc "bottlescan/internal/services/session/service"
)

// Service defines the service contract for scans
type Service interface {
	domain.ServicePort
	// Hub returns the session's live feed
	Hub(sessionID string) (*sessionsvc.Hub, error)
}

// Sessions resolves a session id to its owned state
type Sessions interface {
	Get(id string) (*sessionsvc.Session, error)
}

// MapOptions tune the map view
type MapOptions struct {
	// Fallback centers the map when nothing is located; nil means scanview.Fallback
	Fallback    *geo.Coordinates
	MinCluster  int
	DefaultZoom int
}

// Options are the service dependencies
type Options struct {
	Sessions Sessions
	Detector classifier.Detector
	Capture  *capture.Source
	Clock    ptime.Clock
	Map      MapOptions
	// PreviewWait bounds how long Detect waits for the preview after the verdict
	PreviewWait time.Duration
}

// Svc implements the Service interface
type Svc struct {
	opts Options
}

var _ Service = (*Svc)(nil)

// New creates a scans service
func New(o Options) *Svc {
	if o.Sessions == nil {
		panic("scans.Service requires a non nil session registry")
	}
	if o.Detector == nil {
		panic("scans.Service requires a non nil Detector")
	}
	if o.Capture == nil {
		o.Capture = capture.New(capture.Options{})
	}
	if o.Clock == nil {
		o.Clock = ptime.System
	}
	if o.Map.Fallback == nil {
		f := scanview.Fallback
		o.Map.Fallback = &f
	} else {
		o.Map.Fallback = o.Map.Fallback.Clone()
	}
	if o.Map.MinCluster < 2 {
		o.Map.MinCluster = scanview.DefaultMinCluster
	}
	if o.Map.DefaultZoom <= 0 {
		o.Map.DefaultZoom = scanview.DefaultZoom
	}
	if o.PreviewWait <= 0 {
		o.PreviewWait = 2 * time.Second
	}
	return &Svc{opts: o}
}

// Detect validates the upload, classifies it once and records the Scan.
// Invalid images never reach the classifier; a busy session is a Conflict;
// any classifier failure becomes "detection failed, reason=..." and nothing
// is recorded.
func (s *Svc) Detect(ctx context.Context, sessionID string, in domain.DetectInput) (domain.DetectResult, error) {
	sess, err := s.opts.Sessions.Get(sessionID)
	if err != nil {
		return domain.DetectResult{}, err
	}
	log := logger.C(ctx).With().Str("component", "scans").Str("origin", string(in.Upload.Origin)).Logger()

	captured, err := s.opts.Capture.Submit(ctx, in.Upload)
	if err != nil {
		log.Info().Err(err).Msg("upload rejected")
		return domain.DetectResult{}, err
	}

	if err := sess.Begin(); err != nil {
		return domain.DetectResult{}, err
	}
	defer sess.End()

	if err := reportLocation(sess, in); err != nil {
		return domain.DetectResult{}, err
	}
	loc := sess.Location().Acquire(ctx)

	start := time.Now()
	resp, err := s.opts.Detector.Detect(ctx, captured.Image, loc, in.Brand)
	if err != nil {
		log.Warn().Err(err).Dur("latency", time.Since(start)).Msg("detection failed")
		return domain.DetectResult{}, classifier.Failed(err)
	}

	sc, err := scan.Build(resp, scan.Local{BrandHint: in.Brand, Location: loc, Clock: s.opts.Clock})
	if err != nil {
		log.Warn().Err(err).Msg("detection response rejected")
		return domain.DetectResult{}, classifier.Failed(err)
	}
	if err := sess.Record(sc); err != nil {
		log.Warn().Err(err).Str("scan_id", sc.ID).Msg("scan discarded")
		return domain.DetectResult{}, err
	}
	log.Info().
		Str("scan_id", sc.ID).
		Bool("counterfeit", sc.IsCounterfeit).
		Float64("confidence", sc.Confidence).
		Bool("located", sc.Located()).
		Dur("latency", time.Since(start)).
		Msg("scan recorded")

	out := domain.DetectResult{Scan: sc, Verdict: scanview.Present(sc)}
	if captured.Preview != nil {
		wctx, cancel := context.WithTimeout(ctx, s.opts.PreviewWait)
		out.Preview, _ = captured.Preview.Wait(wctx)
		cancel()
	}
	return out, nil
}

// reportLocation forwards a geolocation outcome carried on the upload
func reportLocation(sess *sessionsvc.Session, in domain.DetectInput) error {
	if in.Denied {
		sess.Location().Report(nil)
		return nil
	}
	if in.Latitude == nil && in.Longitude == nil {
		return nil
	}
	if in.Latitude == nil || in.Longitude == nil {
		return perr.WithField(perr.Validationf("latitude and longitude must be sent together"), "latitude")
	}
	c, err := geo.New(*in.Latitude, *in.Longitude)
	if err != nil {
		return err
	}
	sess.Location().Report(c)
	return nil
}

func (s *Svc) scans(ctx context.Context, sessionID string) (*sessionsvc.Session, []scan.Scan, error) {
	sess, err := s.opts.Sessions.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	all, err := sess.Scans(ctx)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("source", string(sess.Mode())).Msg("scan source failed")
		return nil, nil, err
	}
	return sess, all, nil
}

// List returns the filtered scans in recording order
func (s *Svc) List(ctx context.Context, sessionID string, q domain.FilterQuery) (domain.ScanList, error) {
	_, all, err := s.scans(ctx, sessionID)
	if err != nil {
		return domain.ScanList{}, err
	}
	return domain.ScanList{Filter: q.Filter(), Total: len(all), Scans: scanview.Apply(all, q.Filter())}, nil
}

// Map renders the filtered map view
func (s *Svc) Map(ctx context.Context, sessionID string, q domain.MapQuery) (scanview.View, error) {
	sess, all, err := s.scans(ctx, sessionID)
	if err != nil {
		return scanview.View{}, err
	}
	return scanview.Render(all, q.Filter(), sess.Location().Acquire(ctx), scanview.Options{
		Zoom:       q.ZoomOr(s.opts.Map.DefaultZoom),
		MinCluster: s.opts.Map.MinCluster,
		Fallback:   s.opts.Map.Fallback.Clone(),
	}), nil
}

// GeoJSON renders the map view as a FeatureCollection
func (s *Svc) GeoJSON(ctx context.Context, sessionID string, q domain.MapQuery) ([]byte, error) {
	v, err := s.Map(ctx, sessionID, q)
	if err != nil {
		return nil, err
	}
	return scanview.ExportGeoJSON(v)
}

// Cluster expands a cluster token over the filtered scans
func (s *Svc) Cluster(ctx context.Context, sessionID, token string, q domain.FilterQuery) (domain.ClusterDetail, error) {
	_, all, err := s.scans(ctx, sessionID)
	if err != nil {
		return domain.ClusterDetail{}, err
	}
	members, err := scanview.Expand(scanview.Apply(all, q.Filter()), token)
	if err != nil {
		return domain.ClusterDetail{}, err
	}
	return domain.ClusterDetail{Token: token, Count: len(members), Scans: members}, nil
}

// CenterOnMe centers on the session's position or reports it unavailable
func (s *Svc) CenterOnMe(ctx context.Context, sessionID string) (scanview.Center, error) {
	sess, err := s.opts.Sessions.Get(sessionID)
	if err != nil {
		return scanview.Center{}, err
	}
	return scanview.CenterOn(sess.Location().Acquire(ctx))
}

// ExportCSV exports the filtered scans as CSV
func (s *Svc) ExportCSV(ctx context.Context, sessionID string, q domain.FilterQuery) ([]byte, error) {
	_, all, err := s.scans(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return scanview.ExportCSV(scanview.Apply(all, q.Filter())), nil
}

// ExportJSON exports the filtered scans as JSON
func (s *Svc) ExportJSON(ctx context.Context, sessionID string, q domain.FilterQuery) ([]byte, error) {
	_, all, err := s.scans(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return scanview.ExportJSON(scanview.Apply(all, q.Filter()))
}

// Hub returns the session's live feed
func (s *Svc) Hub(sessionID string) (*sessionsvc.Hub, error) {
	sess, err := s.opts.Sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Hub(), nil
}
