// Package errors provides drop-in replacement for the standard errors package.
// In addition, each error is created with a stack trace
// and multiple errors can be composed to MultiError and NestedError values.
// The Format function renders any error tree as a readable bullet list.
package errors

import (
	stderrors "errors"
	"fmt"
)

type baseError struct {
	err   error
	trace StackTrace
}

// wrappedError replaces the error message, the original error is available via Unwrap.
type wrappedError struct {
	err   error
	msg   string
	trace StackTrace
}

// withStack wraps an error and attaches the stack trace from the WithStack call place.
type withStack struct {
	err   error
	trace StackTrace
}

// chain of errors for errors.Is/As matching.
type chain []error

func New(msg string) error {
	return &baseError{err: stderrors.New(msg), trace: callers()}
}

// Errorf supports the %w verb, as the standard fmt.Errorf does.
func Errorf(format string, a ...any) error {
	return &baseError{err: fmt.Errorf(format, a...), trace: callers()}
}

func Wrap(err error, msg string) error {
	if err == nil {
		panic(New("error cannot be nil"))
	}
	return &wrappedError{err: err, msg: msg, trace: callers()}
}

func Wrapf(err error, format string, a ...any) error {
	if err == nil {
		panic(New("error cannot be nil"))
	}
	return &wrappedError{err: err, msg: fmt.Sprintf(format, a...), trace: callers()}
}

func WithStack(err error) error {
	if err == nil {
		panic(New("error cannot be nil"))
	}
	return &withStack{err: err, trace: callers()}
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

func (e *baseError) Error() string {
	return e.err.Error()
}

func (e *baseError) Unwrap() error {
	return stderrors.Unwrap(e.err)
}

func (e *baseError) StackTrace() StackTrace {
	return e.trace
}

func (e *wrappedError) Error() string {
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

func (e *wrappedError) StackTrace() StackTrace {
	return e.trace
}

func (e *withStack) Error() string {
	return e.err.Error()
}

func (e *withStack) Unwrap() error {
	return e.err
}

func (e *withStack) StackTrace() StackTrace {
	return e.trace
}

func (c chain) Error() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].Error()
}

func (c chain) Unwrap() []error {
	return c
}
