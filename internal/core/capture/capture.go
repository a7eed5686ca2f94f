// Package capture validates uploaded bottle images from any origin and
// produces the payload forwarded to detection plus an asynchronous preview
package capture

import (
	"context"
	"encoding/base64"
	"strings"

	perr "bottlescan/internal/platform/errors"

	"github.com/gabriel-vasile/mimetype"
)

// Origin is how the client obtained the image
type Origin string

// Known origins. All of them are handled identically by Submit.
const (
	FilePicker Origin = "file_picker"
	DragDrop   Origin = "drag_drop"
	Camera     Origin = "camera"
)

// ParseOrigin maps a client value to an Origin; blank means file picker
func ParseOrigin(s string) (Origin, error) {
	switch o := Origin(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return FilePicker, nil
	case FilePicker, DragDrop, Camera:
		return o, nil
	default:
		return "", perr.WithField(perr.Validationf("unknown origin %q", s), "origin")
	}
}

// DefaultMaxBytes bounds an upload when Options.MaxBytes is unset
const DefaultMaxBytes int64 = 10 << 20

// Upload is a raw file as received from the client
type Upload struct {
	Origin       Origin
	Filename     string
	DeclaredType string
	Data         []byte
}

// Image is a validated image ready for detection
type Image struct {
	Filename string
	MIME     string
	Data     []byte
}

// Result is the outcome of an accepted submission
type Result struct {
	Accepted bool
	Origin   Origin
	Image    Image
	Preview  *Preview
}

// Options configures a Source
type Options struct {
	MaxBytes int64
}

// Source turns uploads into validated images. It does no in-flight gating.
type Source struct {
	maxBytes int64
}

// New returns a Source
func New(o Options) *Source {
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	return &Source{maxBytes: o.MaxBytes}
}

// MaxBytes returns the configured upload bound
func (s *Source) MaxBytes() int64 { return s.maxBytes }

// Submit validates u. Non-images, empty or oversized payloads fail with a
// Validation error and nothing else happens. On success the preview starts
// decoding in the background.
func (s *Source) Submit(ctx context.Context, u Upload) (Result, error) {
	if u.Origin == "" {
		u.Origin = FilePicker
	}
	if len(u.Data) == 0 {
		return Result{}, perr.WithField(perr.Validationf("file is empty"), "file")
	}
	if int64(len(u.Data)) > s.maxBytes {
		return Result{}, perr.WithField(perr.Validationf("file exceeds %d bytes", s.maxBytes), "file")
	}

	declared := baseType(u.DeclaredType)
	if declared != "" && declared != "application/octet-stream" && !isImage(declared) {
		return Result{}, perr.WithField(perr.Validationf("please upload an image file, got %s", declared), "file")
	}
	sniffed := baseType(mimetype.Detect(u.Data).String())
	if !isImage(sniffed) {
		return Result{}, perr.WithField(perr.Validationf("please upload an image file, content is %s", sniffed), "file")
	}

	img := Image{Filename: filename(u), MIME: sniffed, Data: u.Data}
	return Result{
		Accepted: true,
		Origin:   u.Origin,
		Image:    img,
		Preview:  startPreview(ctx, img),
	}, nil
}

func baseType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

func isImage(ct string) bool { return strings.HasPrefix(ct, "image/") }

func filename(u Upload) string {
	if n := strings.TrimSpace(u.Filename); n != "" {
		return n
	}
	ext := mimetype.Detect(u.Data).Extension()
	return string(u.Origin) + ext
}

// Preview is a data URI decoded off the request path
type Preview struct {
	done chan struct{}
	uri  string
	err  error
}

func startPreview(ctx context.Context, img Image) *Preview {
	p := &Preview{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if err := ctx.Err(); err != nil {
			p.err = err
			return
		}
		var b strings.Builder
		b.Grow(len("data:;base64,") + len(img.MIME) + base64.StdEncoding.EncodedLen(len(img.Data)))
		b.WriteString("data:")
		b.WriteString(img.MIME)
		b.WriteString(";base64,")
		b.WriteString(base64.StdEncoding.EncodeToString(img.Data))
		p.uri = b.String()
	}()
	return p
}

// Wait blocks until the preview is ready or ctx is done
func (p *Preview) Wait(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.uri, p.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Ready returns the preview if decoding has finished
func (p *Preview) Ready() (string, bool) {
	select {
	case <-p.done:
		return p.uri, p.err == nil
	default:
		return "", false
	}
}
