package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var (
	// ErrInvalidBarcode is returned when the normalized code is empty or unusable
	ErrInvalidBarcode = errors.New("invalid barcode input")

	// ErrRecordNotFound is returned when a barcode has no record in the local store
	ErrRecordNotFound = errors.New("record not found")

	// ErrNoHeuristicMatch is returned when no brand-family substring matched
	ErrNoHeuristicMatch = errors.New("no heuristic brand pattern matched")

	// ErrSourceNotFound is returned by an adapter whose provider has no entry for the code
	ErrSourceNotFound = errors.New("product not found at source")
)

// SourceErrorKind distinguishes the recoverable adapter failure modes
type SourceErrorKind string

const (
	SourceErrTimeout    SourceErrorKind = "timeout"
	SourceErrHTTPStatus SourceErrorKind = "http_status"
	SourceErrDecode     SourceErrorKind = "decode"
	SourceErrNotFound   SourceErrorKind = "not_found"
)

// SourceError is a single adapter failure. The pipeline records these and
// proceeds to the next source rather than surfacing them individually.
type SourceError struct {
	Source string
	Kind   SourceErrorKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ExhaustedError is the terminal failure of a resolution: every stage missed.
// Attempts holds one entry per source in the order they were tried, so the
// caller can show diagnostics and offer manual entry.
type ExhaustedError struct {
	Barcode  string
	Attempts []*SourceError
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("all sources exhausted for barcode %s: [%s]", e.Barcode, strings.Join(parts, "; "))
}

// NewSourceError builds a typed adapter failure
func NewSourceError(source string, kind SourceErrorKind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// TransportError classifies a transport-level failure from an outbound
// request as timeout or generic decode-kind failure
func TransportError(source string, err error) *SourceError {
	kind := SourceErrDecode
	if isTimeout(err) {
		kind = SourceErrTimeout
	}
	return &SourceError{Source: source, Kind: kind, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
