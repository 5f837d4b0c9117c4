// Package errors provides structured error types for tagforge with
// error codes, source locations, and context propagation. All errors
// produced by the parser, document validation, and configuration layers
// flow through this package so callers can classify failures with
// errors.Is/errors.As.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// TagforgeError is a structured error type with context.
type TagforgeError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	FilePath    string
	Line        int
	Column      int
	Recoverable bool
}

// Error implements the error interface.
func (e *TagforgeError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
			if e.Column > 0 {
				location += fmt.Sprintf(":%d", e.Column)
			}
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TagforgeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *TagforgeError) Is(target error) bool {
	var t *TagforgeError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TagforgeError) WithContext(key string, value interface{}) *TagforgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithLocation adds source location information.
func (e *TagforgeError) WithLocation(filePath string, line, column int) *TagforgeError {
	e.FilePath = filePath
	e.Line = line
	e.Column = column

	return e
}

// Error creation functions

// NewParseError creates a markup parse error.
func NewParseError(code, message string) *TagforgeError {
	return &TagforgeError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *TagforgeError {
	return &TagforgeError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TagforgeError {
	return &TagforgeError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TagforgeError {
	return &TagforgeError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TagforgeError {
	return &TagforgeError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var te *TagforgeError
	if errors.As(err, &te) {
		return te.Recoverable
	}

	return false
}

// IsParseError checks if an error came from the markup scanner.
func IsParseError(err error) bool {
	var te *TagforgeError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeParse
	}

	return false
}

// Common error codes.
const (
	ErrCodeUnterminatedTag   = "ERR_UNTERMINATED_TAG"
	ErrCodeUnterminatedQuote = "ERR_UNTERMINATED_QUOTE"
	ErrCodeEmptyTagName      = "ERR_EMPTY_TAG_NAME"
	ErrCodeUnbalancedTag     = "ERR_UNBALANCED_TAG"
	ErrCodeMismatchedTag     = "ERR_MISMATCHED_TAG"
	ErrCodeInvalidPath       = "ERR_INVALID_PATH"
	ErrCodePathTraversal     = "ERR_PATH_TRAVERSAL"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// ErrImmutable is the sentinel matched by errors.Is for any mutation
// attempted on a frozen tag or attribute map.
var ErrImmutable = errors.New("immutable")

// ImmutableOperationError reports an attempted mutation of a frozen tag
// or attribute map. These are programmer faults: they are never retried
// and always propagate to the caller.
type ImmutableOperationError struct {
	// Op names the rejected operation, such as "SetName" or "Put".
	Op string
	// Target describes the frozen object, such as `tag <img>`.
	Target string
}

// Error implements the error interface.
func (e *ImmutableOperationError) Error() string {
	return fmt.Sprintf("%s: %s is immutable", e.Op, e.Target)
}

// Is matches the ErrImmutable sentinel.
func (e *ImmutableOperationError) Is(target error) bool {
	return target == ErrImmutable
}

// NewImmutableError creates an error for a mutation of a frozen object.
func NewImmutableError(op, target string) *ImmutableOperationError {
	return &ImmutableOperationError{Op: op, Target: target}
}

// ErrInvalidPath creates a path validation error.
func ErrInvalidPath(path string) *TagforgeError {
	return NewValidationError(ErrCodeInvalidPath, "invalid path: "+path)
}

// ErrPathTraversal creates a path traversal error.
func ErrPathTraversal(path string) *TagforgeError {
	return NewValidationError(ErrCodePathTraversal, "path traversal attempt: "+path)
}

// ErrFileNotFound creates a file not found error.
func ErrFileNotFound(path string, cause error) *TagforgeError {
	return NewIOError(ErrCodeFileNotFound, "file not found: "+path, cause)
}
