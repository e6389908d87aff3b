package customerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrOutOfRange is returned for a ledger index that does not name a current row.
var ErrOutOfRange = errors.New("index out of range")

// RateReason classifies an exchange-rate lookup failure so a front-end
// can give distinct guidance for each.
type RateReason int

const (
	RateUnreachable RateReason = iota
	RateTimeout
	RateHTTPError
	RateUnsupportedCurrency
	RateMalformedResponse
)

func (r RateReason) String() string {
	switch r {
	case RateUnreachable:
		return "service unreachable"
	case RateTimeout:
		return "request timed out"
	case RateHTTPError:
		return "unexpected http status"
	case RateUnsupportedCurrency:
		return "currency not supported"
	case RateMalformedResponse:
		return "malformed response"
	}
	return "unknown"
}

// RateError is an exchange-rate service failure.
type RateError struct {
	Reason RateReason
	Status int // http status, set for RateHTTPError
	Cause  error
}

func (e *RateError) Error() string {
	if e.Reason == RateHTTPError {
		return fmt.Sprintf("rates: %s (%d)", e.Reason, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("rates: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("rates: %s", e.Reason)
}

func (e *RateError) Unwrap() error {
	return e.Cause
}

// ValidationError aggregates every field rule violated by one submission.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation: " + strings.Join(e.Issues, "; ")
}

// PersistError reports a failed data-file rewrite. The in-memory ledger
// remains authoritative for the rest of the session when it occurs.
type PersistError struct {
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist: %v", e.Cause)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
