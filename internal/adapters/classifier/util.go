package classifier

import (
	"errors"
	"io"
	"strconv"

	perr "bottlescan/internal/platform/errors"
)

// StatusError wraps a non-2xx reply from the classifier
type StatusError struct {
	Status int
	Err    error
}

func newStatusError(status int) *StatusError {
	return &StatusError{Status: status, Err: perr.Upstreamf("HTTP error! status: %s", strconv.Itoa(status))}
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus interface
func (e *StatusError) HTTPStatus() int { return e.Status }

// StatusOf returns the upstream status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// Failed folds any detection error into the one user facing message
// "detection failed, reason=<message>", keeping the original code
func Failed(err error) error {
	if err == nil {
		return nil
	}
	reason := err.Error()
	if e, ok := perr.As(err); ok {
		reason = e.Message()
	}
	return perr.Wrapf(err, perr.CodeOf(err), "detection failed, reason=%s", reason)
}
