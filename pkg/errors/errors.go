// Package errors defines the coded errors shared by the jsongraph CLI and
// HTTP service.
//
// Every failure a user can act on carries a [Code]: the CLI prints
// [UserMessage] and the server returns the code in its JSON error body.
//
//	if d < -1 {
//	    return errors.New(errors.ErrCodeInvalidDepth, "depth must be >= -1, got %d", d)
//	}
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
//	}
//
// Codes starting with INVALID_ and PARSE_ERROR are caller mistakes; see
// [Code.Input].
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure class.
type Code string

const (
	// Caller input
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDepth   Code = "INVALID_DEPTH"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidBackend Code = "INVALID_CACHE_BACKEND"
	ErrCodeParse          Code = "PARSE_ERROR"

	// Environment
	ErrCodeIO               Code = "IO_ERROR"
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
	ErrCodeUnsupported      Code = "UNSUPPORTED"
)

// Input reports whether c blames the caller's document or options.
func (c Code) Input() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidDepth, ErrCodeInvalidFormat,
		ErrCodeInvalidPath, ErrCodeInvalidBackend, ErrCodeParse:
		return true
	}
	return false
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is [New] with a cause, which stays reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsInputError reports whether err is a caller mistake. The HTTP service
// answers these with 4xx.
func IsInputError(err error) bool {
	return GetCode(err).Input()
}

// UserMessage is err without the code prefix, for terminal output.
func UserMessage(err error) string {
	e, ok := asError(err)
	switch {
	case !ok:
		return err.Error()
	case e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	default:
		return e.Message
	}
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
