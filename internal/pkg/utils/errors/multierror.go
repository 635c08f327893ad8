package errors

type MultiError interface {
	Len() int
	Error() string
	Unwrap() []error
	StackTrace() StackTrace
	WrappedErrors() []error
	ErrorOrNil() error
	Append(errs ...error)
	AppendNested(err error) NestedError
	AppendWithPrefix(err error, prefix string)
	AppendWithPrefixf(err error, format string, a ...any)
}

type multiErrorGetter interface {
	WrappedErrors() []error
}

type multiError struct {
	errs  []error
	trace StackTrace
}

func NewMultiError() MultiError {
	return &multiError{trace: callers()}
}

func (e *multiError) Len() int {
	return len(e.errs)
}

func (e *multiError) Error() string {
	return Format(e)
}

func (e *multiError) Unwrap() []error {
	return e.errs
}

func (e *multiError) StackTrace() StackTrace {
	return e.trace
}

func (e *multiError) WrappedErrors() []error {
	return e.errs
}

// ErrorOrNil returns nil if there is no error, otherwise the MultiError itself.
func (e *multiError) ErrorOrNil() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e
}

// Append adds errors to the list, a MultiError argument is flattened.
func (e *multiError) Append(errs ...error) {
	for _, err := range errs {
		if err == nil {
			panic(New("error cannot be nil"))
		}
		if v, ok := err.(multiErrorGetter); ok && !isNested(err) { // nolint: errorlint
			e.errs = append(e.errs, v.WrappedErrors()...)
		} else {
			e.errs = append(e.errs, err)
		}
	}
}

// AppendNested adds the error as the main error of a new nested group,
// sub-errors can be added to the returned value.
func (e *multiError) AppendNested(err error) NestedError {
	nested := NewNestedError(err)
	e.errs = append(e.errs, nested)
	return nested
}

func (e *multiError) AppendWithPrefix(err error, prefix string) {
	e.errs = append(e.errs, PrefixError(err, prefix))
}

func (e *multiError) AppendWithPrefixf(err error, format string, a ...any) {
	e.errs = append(e.errs, PrefixErrorf(err, format, a...))
}

func isNested(err error) bool {
	_, ok := err.(nestedErrorGetter) // nolint: errorlint
	return ok
}
