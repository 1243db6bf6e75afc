package service

import (
	"context"
	"errors"
	"fmt"
	"net"
)

const (
	OpFetch = "fetch"
	OpParse = "parse"
)

// DetectionError is the single failure kind returned by form detection.
// StatusCode is set when the target answered with a non-2xx status.
type DetectionError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("failed to detect forms: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline.
func (e *DetectionError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// asDetectionError returns err unchanged when it already is a
// DetectionError and wraps it otherwise.
func asDetectionError(err error, op, url string) error {
	var de *DetectionError
	if errors.As(err, &de) {
		return err
	}
	return &DetectionError{Op: op, URL: url, Err: err}
}
