package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	ErrAborted        ErrorCode = "ABORTED"
	ErrMissingEnv     ErrorCode = "MISSING_ENV"

	// Configuration errors
	ErrConfigLoad        ErrorCode = "CONFIG_LOAD"
	ErrConfigUnsupported ErrorCode = "CONFIG_UNSUPPORTED"
	ErrConfigEncode      ErrorCode = "CONFIG_ENCODE"

	// Path resolution errors
	ErrKeyNotFound      ErrorCode = "KEY_NOT_FOUND"
	ErrPathTypeMismatch ErrorCode = "PATH_TYPE_MISMATCH"
	ErrPathSyntax       ErrorCode = "PATH_SYNTAX"

	// Data errors
	ErrCoercion    ErrorCode = "COERCION"
	ErrStageFailed ErrorCode = "STAGE_FAILED"
	ErrTableShape  ErrorCode = "TABLE_SHAPE"

	// External collaborators
	ErrQuery ErrorCode = "QUERY"
	ErrSync  ErrorCode = "SYNC"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// HaferError carries a stable code, a message and free-form details.
// Callers match on the code, never on the message.
type HaferError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Wrapped error
}

func (e *HaferError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *HaferError) Unwrap() error { return e.Wrapped }

// Is matches any HaferError with the same code, so sentinel values such as
// New(ErrKeyNotFound, "") work with errors.Is.
func (e *HaferError) Is(target error) bool {
	var other *HaferError
	return errors.As(target, &other) && other.Code == e.Code
}

func build(code ErrorCode, msg string, wrapped error) *HaferError {
	return &HaferError{Code: code, Message: msg, Details: map[string]any{}, Wrapped: wrapped}
}

func New(code ErrorCode, message string) *HaferError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...any) *HaferError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *HaferError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

func Wrapf(err error, code ErrorCode, format string, args ...any) *HaferError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// WithDetail sets one detail and returns e for chaining.
func (e *HaferError) WithDetail(key string, value any) *HaferError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

func (e *HaferError) WithDetails(details map[string]any) *HaferError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// IsErrorCode reports whether any HaferError in the chain of err has code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var he *HaferError
		if !errors.As(err, &he) {
			return false
		}
		if he.Code == code {
			return true
		}
		err = he.Wrapped
	}
	return false
}

// GetErrorCode returns the outermost code, ErrUnknown for foreign errors.
func GetErrorCode(err error) ErrorCode {
	var he *HaferError
	if errors.As(err, &he) {
		return he.Code
	}
	return ErrUnknown
}

func GetErrorDetails(err error) map[string]any {
	var he *HaferError
	if errors.As(err, &he) {
		return he.Details
	}
	return nil
}
