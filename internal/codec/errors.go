// Package codec converts geometries between well-known text, well-known
// binary and GeoJSON representations.
package codec

import (
	"fmt"

	"github.com/jobrunner/locus/internal/domain"
)

// ErrTruncated is returned when binary input ends before the declared
// structure is complete.
var ErrTruncated = fmt.Errorf("truncated input: %w", domain.ErrInvalidInput)

// ParseError represents a syntax error in textual or binary input.
type ParseError struct {
	Format  string // "wkt" or "wkb"
	Message string // Human-readable message
	Err     error  // Underlying error (may be nil)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s parse error: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap returns the underlying error type.
func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return domain.ErrInvalidInput
}

func parseErr(format, message string) error {
	return &ParseError{Format: format, Message: message}
}

func parseErrWrap(format, message string, err error) error {
	return &ParseError{Format: format, Message: message, Err: err}
}
