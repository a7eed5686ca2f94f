// Package scanfeed reads scans from a remote listing instead of the local log
package scanfeed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "bottlescan"
	maxBodyBytes   = 8 << 20
)

var _ scan.Source = (*Client)(nil)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// Client lists scans from {base}/scans
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient returns nil without a base URL
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		return nil
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.Client
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{http: hc, opts: o, log: *logger.Named("scanfeed")}
}

// Record is one row of the remote listing
type Record struct {
	ID            string   `json:"id"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	IsCounterfeit bool     `json:"is_counterfeit"`
	Confidence    *float64 `json:"confidence,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Date          string   `json:"date,omitempty"`
}

// Scan maps a record onto the local shape. Missing or out of range
// coordinates leave the scan unlocated.
func (r Record) Scan() scan.Scan {
	s := scan.Scan{
		ID:            r.ID,
		Brand:         scan.NormalizeBrand(r.Brand),
		Date:          strings.TrimSpace(r.Date),
		IsCounterfeit: r.IsCounterfeit,
	}
	if r.Confidence != nil {
		s.Confidence = *r.Confidence
	}
	if r.Latitude != nil && r.Longitude != nil {
		if c, err := geo.New(*r.Latitude, *r.Longitude); err == nil {
			s.Location = c
		}
	}
	return s
}

// List implements scan.Source
func (c *Client) List(ctx context.Context) ([]scan.Scan, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/scans", nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "scanfeed new request failed")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("scan feed unreachable")
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "scan feed unreachable")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, perr.Upstreamf("HTTP error! status: %d", resp.StatusCode)
	}

	var rows []Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&rows); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeMalformed, "scan feed is not a json array")
	}
	out := make([]scan.Scan, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Scan())
	}
	c.log.Debug().Int("scans", len(out)).Msg("scan feed listed")
	return out, nil
}
