// Package classifier talks to the remote counterfeit classification service
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"bottlescan/internal/core/capture"
	"bottlescan/internal/core/geo"
	"bottlescan/internal/core/scan"
	perr "bottlescan/internal/platform/errors"
	"bottlescan/internal/platform/logger"
)

const (
	baseURLDefault = "http://localhost:5000"
	defaultTimeout = 30 * time.Second
	defaultUA      = "bottlescan"
	maxBodyBytes   = 1 << 20
)

// Detector classifies one image. Implementations make at most one call and
// never touch a scan store.
type Detector interface {
	Detect(ctx context.Context, img capture.Image, loc *geo.Coordinates, brandHint string) (scan.DetectionResponse, error)
}

var (
	_ Detector = (*Client)(nil)
	_ Detector = (*Fake)(nil)
)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// Client is the HTTP Detector
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// NewClient creates a Client with defaults filled in
func NewClient(o Options) *Client {
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
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
	return &Client{
		http: hc,
		opts: o,
		log:  *logger.Named("classifier"),
		now:  time.Now,
	}
}

// BaseURL returns the service root
func (c *Client) BaseURL() string { return c.opts.BaseURL }

// Detect posts the image as multipart/form-data to {base}/predict. Unknown
// coordinates are sent as the "0" sentinel; a blank hint becomes "Unknown".
func (c *Client) Detect(ctx context.Context, img capture.Image, loc *geo.Coordinates, brandHint string) (scan.DetectionResponse, error) {
	body, ctype, err := encodeForm(img, geo.OrSentinel(loc), brandHint)
	if err != nil {
		return scan.DetectionResponse{}, perr.Wrap(err, perr.ErrorCodeUnknown, "encode detection request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/predict", body)
	if err != nil {
		return scan.DetectionResponse{}, perr.Wrap(err, perr.ErrorCodeUnknown, "classifier new request failed")
	}
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		c.log.Warn().Err(err).Dur("latency", lat).Msg("classifier unreachable")
		return scan.DetectionResponse{}, perr.Wrap(err, perr.ErrorCodeUnavailable, err.Error())
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Int("bytes", len(img.Data)).
		Msg("classifier http response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return scan.DetectionResponse{}, newStatusError(resp.StatusCode)
	}

	var out scan.DetectionResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return scan.DetectionResponse{}, perr.Wrap(err, perr.ErrorCodeMalformed, "classifier response is not valid json")
	}
	if err := out.Validate(); err != nil {
		return scan.DetectionResponse{}, err
	}
	return out, nil
}

// CheckHealth probes {base}/health
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"/health", nil)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "classifier new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, err.Error())
	}
	defer func() { _ = drainAndClose(resp.Body) }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode)
	}
	return nil
}

// Ping lets the client serve as a readiness check
func (c *Client) Ping(ctx context.Context) error { return c.CheckHealth(ctx) }

func encodeForm(img capture.Image, loc geo.Coordinates, brandHint string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+quoteEscaper.Replace(img.Filename)+`"`)
	h.Set("Content-Type", img.MIME)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}

	brand := strings.TrimSpace(brandHint)
	if brand == "" {
		brand = scan.UnknownBrand
	}
	fields := [][2]string{
		{"latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64)},
		{"longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64)},
		{"brand", brand},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
