package genai

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure into a closed set the orchestrators
// map to safe fallback text. Raw upstream detail stays in logs only.
type Kind string

const (
	KindTimeout             Kind = "timeout"
	KindUnavailable         Kind = "unavailable"
	KindAuth                Kind = "auth"
	KindForbidden           Kind = "forbidden"
	KindRateLimited         Kind = "rate_limited"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindUpstreamError       Kind = "upstream_error"
	KindParse               Kind = "parse"
)

// Error is a classified generation failure.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

// KindOf extracts the classification from an error returned by Generate.
func KindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}
