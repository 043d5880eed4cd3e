package domain

import (
	"errors"
	"fmt"
)

// UpstreamErrorKind classifies how an upstream call failed.
type UpstreamErrorKind string

const (
	UpstreamTimeout          UpstreamErrorKind = "timeout"
	UpstreamBadStatus        UpstreamErrorKind = "bad_status"
	UpstreamMalformedPayload UpstreamErrorKind = "malformed_payload"
)

// UpstreamError wraps a failed upstream HTTP call. Status is only set for
// bad_status errors.
type UpstreamError struct {
	Kind     UpstreamErrorKind
	Endpoint string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Kind == UpstreamBadStatus {
		return fmt.Sprintf("upstream %s: %s (HTTP %d)", e.Endpoint, e.Kind, e.Status)
	}
	return fmt.Sprintf("upstream %s: %s: %v", e.Endpoint, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamTimeout reports whether err is an upstream timeout.
func IsUpstreamTimeout(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Kind == UpstreamTimeout
}
