package backend

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure.
type Kind int

const (
	KindTransport Kind = iota + 1 // network unreachable, DNS, connection reset
	KindTimeout                   // transport deadline exceeded
	KindStatus                    // non-2xx HTTP status
	KindMalformed                 // body is not JSON or lacks the response field
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Dispatch for every failed exchange.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int    // set for KindStatus
	Detail     string // backend "detail" field or raw body excerpt
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Detail != "" {
			return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("%s: status %d", e.URL, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s error: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %s error", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a dispatch Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}
