package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"bottlescan/internal/platform/logger"
)

// HTTPOptions configures an IP geolocation lookup
type HTTPOptions struct {
	URL       string
	Timeout   time.Duration // default 3s
	UserAgent string        // default "bottlescan"
	Client    *http.Client
}

// HTTPProvider looks the caller up against an IP geolocation endpoint that
// answers {"latitude":..,"longitude":..} (or the "lat"/"lon" short form)
type HTTPProvider struct {
	url string
	ua  string
	hc  *http.Client
}

// NewHTTPProvider returns nil when no URL is configured
func NewHTTPProvider(o HTTPOptions) *HTTPProvider {
	if o.URL == "" {
		return nil
	}
	if o.Timeout <= 0 {
		o.Timeout = 3 * time.Second
	}
	if o.UserAgent == "" {
		o.UserAgent = "bottlescan"
	}
	hc := o.Client
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &HTTPProvider{url: o.URL, ua: o.UserAgent, hc: hc}
}

type lookupBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

// Acquire implements Provider. Every failure is logged at debug and yields nil.
func (p *HTTPProvider) Acquire(ctx context.Context) *Coordinates {
	if p == nil {
		return nil
	}
	log := logger.C(ctx).With().Str("component", "geo").Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		log.Debug().Err(err).Msg("geolocation request build failed")
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.ua)

	resp, err := p.hc.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("geolocation unavailable")
		return nil
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Int("status", resp.StatusCode).Msg("geolocation unavailable")
		return nil
	}

	var b lookupBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&b); err != nil {
		log.Debug().Err(err).Msg("geolocation body undecodable")
		return nil
	}
	lat, lng := b.Latitude, b.Longitude
	if lat == nil || lng == nil {
		lat, lng = b.Lat, b.Lon
	}
	if lat == nil || lng == nil {
		return nil
	}
	c, err := New(*lat, *lng)
	if err != nil {
		log.Debug().Err(err).Msg("geolocation out of range")
		return nil
	}
	return c
}
