package search

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a search failure
type Kind int

const (
	KindNone Kind = iota
	KindTransport
	KindDecode
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindCanceled:
		return "canceled"
	default:
		return "none"
	}
}

// TransportError is a non-success status or a rejected round trip
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("search request failed with status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("search request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a response body with an unexpected shape
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode search response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsCanceled reports whether err comes from an intentional abort
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// Classify maps an error returned by a Strategy to its Kind.
// Cancellation wins over the wrapping error type.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if IsCanceled(err) {
		return KindCanceled
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return KindDecode
	}
	return KindTransport
}
