package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Loader errors, fatal to the session
	ErrSourceUnavailable = errors.New("data source unavailable")
	ErrSchemaMismatch    = errors.New("schema mismatch")

	// Lookup errors
	ErrNotFound         = errors.New("resource not found")
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)
	ErrUnknownColumn    = errors.New("unknown column")
	ErrUnknownChart     = errors.New("unknown chart")

	// Configuration-dependent features
	ErrArchiveDisabled = errors.New("report archive is not configured")
	ErrEmptyChart      = errors.New("chart has no data points")
)

// Error constructors with context
func NewSourceError(source string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
}

func NewSchemaError(reason string) error {
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, reason)
}

func NewMissingColumnsError(columns []string) error {
	return fmt.Errorf("%w: missing required columns %v", ErrSchemaMismatch, columns)
}

func NewUnknownColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, column)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

// IsLoadError reports whether err is one of the two loader failures.
func IsLoadError(err error) bool {
	return IsSourceError(err) || IsSchemaError(err)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
