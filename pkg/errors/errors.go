package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies the failures that can terminate a compression
// request. The category drives how the boundary layer reports the failure
// (client error vs server error) and which telemetry counter is bumped.
type ErrorCategory int

const (
	// ErrorDecode indicates the source media could not be read or decoded,
	// such as a missing file, an unreadable stream or a corrupt image.
	ErrorDecode ErrorCategory = iota + 1

	// ErrorCoding indicates a failure inside an entropy coder, such as an
	// empty raster handed to the Huffman coder.
	ErrorCoding

	// ErrorNumeric indicates a failure in numeric processing, such as a
	// matrix decomposition on an empty or non 2D array.
	ErrorNumeric

	// ErrorExternalTool indicates an external encoder process exited with a
	// non-zero status. Detail carries the tool's diagnostic output.
	ErrorExternalTool

	// ErrorPersist indicates the artifact could not be written to storage.
	ErrorPersist

	// ErrorNotImplemented indicates a recognized method with no behavior.
	ErrorNotImplemented
)

// String returns the string representation of the error category.
// This is useful for logging, metrics, and error reporting.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorDecode:
		return "decode"
	case ErrorCoding:
		return "coding"
	case ErrorNumeric:
		return "numeric"
	case ErrorExternalTool:
		return "external-tool"
	case ErrorPersist:
		return "persist"
	case ErrorNotImplemented:
		return "not-implemented"
	default:
		return "unknown"
	}
}

// MediaError is a classified failure raised by a compression strategy or the
// orchestrator. Failures are terminal for the request: nothing is retried.
type MediaError struct {
	Err       error
	Detail    string
	Operation string
	Timestamp time.Time
	Category  ErrorCategory
}

// NewMediaError creates a MediaError stamped with the current time.
func NewMediaError(category ErrorCategory, operation string, err error) *MediaError {
	return &MediaError{Err: err, Category: category, Operation: operation, Timestamp: time.Now()}
}

// WithDetail attaches diagnostic text (for example an encoder's stderr).
func (e *MediaError) WithDetail(detail string) *MediaError {
	e.Detail = detail
	return e
}

func (e *MediaError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%v] %s: %v: %s", e.Category, e.Operation, e.Err, e.Detail)
	}
	return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of the first MediaError in err's chain,
// or 0 when there is none.
func CategoryOf(err error) ErrorCategory {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Category
	}
	return 0
}

// OperationOf returns the operation of the first MediaError in err's chain.
func OperationOf(err error) string {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Operation
	}
	return ""
}

// IsCategory reports whether err carries a MediaError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	return CategoryOf(err) == category
}

// Classify returns a short label for err suitable for logs and metric attributes.
// Interrupted requests are labelled "timeout" or "cancelled".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if IsValidationError(err) {
		return "validation"
	}
	if category := CategoryOf(err); category != 0 {
		return category.String()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	}
	return ErrorCategory(0).String()
}
