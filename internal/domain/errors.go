package domain

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported operation")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// Specific errors.
var (
	ErrGeosetNotFound     = fmt.Errorf("geoset: %w", ErrNotFound)
	ErrGeometryNotFound   = fmt.Errorf("geometry: %w", ErrNotFound)
	ErrInvalidCoordinate  = fmt.Errorf("coordinate: %w", ErrInvalidInput)
	ErrInvalidSRID        = fmt.Errorf("srid: %w", ErrInvalidInput)
	ErrSRIDMismatch       = fmt.Errorf("srid mismatch: %w", ErrInvalidInput)
	ErrUnclosedRing       = fmt.Errorf("ring not closed: %w", ErrInvalidInput)
	ErrDegenerateRing     = fmt.Errorf("ring has fewer than 3 distinct vertices: %w", ErrInvalidInput)
	ErrMalformedRing      = fmt.Errorf("ring self-intersects: %w", ErrInvalidInput)
	ErrInvalidRadius      = fmt.Errorf("radius must be positive: %w", ErrInvalidInput)
	ErrUnsupportedType    = fmt.Errorf("geometry type: %w", ErrUnsupported)
	ErrIndexCreation      = fmt.Errorf("index creation: %w", ErrInternal)
	ErrNotReady           = fmt.Errorf("service not ready: %w", ErrUnavailable)
	ErrStorageUnavailable = fmt.Errorf("storage: %w", ErrUnavailable)
)

// ValidationError represents a detailed validation error.
type ValidationError struct {
	Field      string      // Field that failed validation
	Value      interface{} // The invalid value
	Constraint string      // The constraint that was violated
	Message    string      // Human-readable message
	Err        error       // Sentinel to unwrap to (defaults to ErrInvalidInput)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v, constraint: %s)",
		e.Field, e.Message, e.Value, e.Constraint)
}

// Unwrap returns the underlying error type.
func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// QueryError represents an error during a query operation.
type QueryError struct {
	GeosetID string // Geoset identifier
	Name     string // Geometry name within the geoset
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("query error in geoset %s, geometry %s: %v",
			e.GeosetID, e.Name, e.Err)
	}
	return fmt.Sprintf("query error in geoset %s: %v", e.GeosetID, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// StorageError represents an error during storage operations.
type StorageError struct {
	Operation string // Operation that failed (download, list, etc.)
	Key       string // Object key
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error during %s for %s: %v",
			e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IndexError represents an error during spatial index operations.
type IndexError struct {
	GeosetID string // Geoset identifier
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("index error for geoset %s: %v", e.GeosetID, e.Err)
}

// Unwrap returns the underlying error.
func (e *IndexError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string // Configuration field
	Message string // Error message
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidInput
}
