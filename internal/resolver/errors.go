package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies a resolver failure for the boundary layer.
type Kind int

const (
	// KindInvalidInput: empty URL or a URL without a recognizable video ID.
	KindInvalidInput Kind = iota + 1
	// KindUpstream: oEmbed provider or transcript source failure.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstream:
		return "upstream_failure"
	}
	return "unknown"
}

// Error is the only error type returned by Service operations.
type Error struct {
	Kind    Kind
	Message string // caller-facing text, includes the cause for upstream failures
	Err     error  // underlying cause, nil for invalid input
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func invalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func upstreamFailure(prefix string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: fmt.Sprintf("%s: %v", prefix, err), Err: err}
}

// KindOf returns the Kind of err, or 0 when err is not a resolver error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}
