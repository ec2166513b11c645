package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// PlatformError is the error type returned by every package of this module.
// Use errors.As(err, &platformErr) to inspect the code and context.
type PlatformError interface {
	error

	// Code returns the classification of the error.
	Code() ErrorCode

	// Message returns the human readable message without the wrapped cause.
	Message() string

	// Context returns the structured context attached to the error.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, if any.
	Unwrap() error
}

type platformError struct {
	code    ErrorCode
	message string
	context map[string]interface{}
	cause   error
}

func (e *platformError) Error() string {
	var b strings.Builder
	b.WriteString(e.message)

	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %v", k, e.context[k])
		}
		b.WriteString(")")
	}

	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

func (e *platformError) Code() ErrorCode { return e.code }

func (e *platformError) Message() string { return e.message }

func (e *platformError) Context() map[string]interface{} {
	if e.context == nil {
		return map[string]interface{}{}
	}
	out := make(map[string]interface{}, len(e.context))
	for k, v := range e.context {
		out[k] = v
	}
	return out
}

func (e *platformError) Unwrap() error { return e.cause }

// New creates a PlatformError with the given code and message.
//
//nolint:ireturn // PlatformError is the public error contract.
func New(code ErrorCode, message string) PlatformError {
	return &platformError{code: code, message: message}
}

// Newf creates a PlatformError with a formatted message.
//
//nolint:ireturn // PlatformError is the public error contract.
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return &platformError{code: code, message: fmt.Sprintf(format, args...)}
}

// NewWithContext creates a PlatformError carrying structured context.
//
//nolint:ireturn // PlatformError is the public error contract.
func NewWithContext(code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	return &platformError{code: code, message: message, context: ctx}
}

// Wrap wraps err with a code and message. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &platformError{code: code, message: message, cause: err}
}

// WrapWithContext wraps err with a code, message and structured context.
// A nil err yields nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &platformError{code: code, message: message, context: ctx, cause: err}
}

// GetCode returns the code of the outermost PlatformError in err's chain,
// or CodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	var pe PlatformError
	if As(err, &pe) {
		return pe.Code()
	}
	return CodeUnknown
}

// HasCode reports whether any PlatformError in err's chain carries code.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if pe, ok := err.(PlatformError); ok && pe.Code() == code { //nolint:errorlint // walking the chain manually
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
