package errors

import (
	"errors"
	"fmt"
)

// Category classifies error types for targeted handling and monitoring.
type Category string

const (
	CategoryPermission  Category = "permission"
	CategoryAllocation  Category = "allocation"
	CategoryCompression Category = "compression"
	CategoryStorage     Category = "storage"
	CategoryLaunch      Category = "launch"
	CategoryInput       Category = "input"
	CategoryState       Category = "state"
)

// AcquireError is the structured error type used throughout the module.
type AcquireError struct {
	Category Category
	Op       string // operation name
	Err      error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Err)
}

func (e *AcquireError) Unwrap() error { return e.Err }

// New creates an AcquireError.
func New(category Category, op string, err error) *AcquireError {
	return &AcquireError{Category: category, Op: op, Err: err}
}

// Wrap wraps an existing error with context.
func Wrap(category Category, op string, err error) error {
	if err == nil {
		return nil
	}
	return New(category, op, err)
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, cat Category) bool {
	var ae *AcquireError
	if errors.As(err, &ae) {
		return ae.Category == cat
	}
	return false
}

// Sentinel errors for common failure modes.
var (
	ErrUnsupportedFormat  = errors.New("unsupported image format")
	ErrEmptyInput         = errors.New("empty input")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidState       = errors.New("operation not legal in current state")
	ErrStaleToken         = errors.New("pending token superseded or unknown")
	ErrNotEphemeral       = errors.New("locator is not an ephemeral resource")
)
