package errors_test

import (
	"fmt"

	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

func ExampleNew() {
	fmt.Println(errors.New("some error"))
	// output:
	// some error
}

func ExampleErrorf() {
	err := errors.Errorf("enhanced error message: %w", errors.New("original error"))
	fmt.Println(err)
	// output:
	// enhanced error message: original error
}

func ExampleWrap() {
	err := errors.Wrap(errors.New("original error"), "new error message")
	fmt.Println(errors.Format(err, errors.FormatWithUnwrap()))
	// output:
	// new error message (*errors.wrappedError):
	// - original error
}

func ExampleWrapf() {
	err := errors.Wrapf(errors.New("original error"), "new error %s", "message")
	fmt.Println(errors.Format(err, errors.FormatWithUnwrap()))
	// output:
	// new error message (*errors.wrappedError):
	// - original error
}

func ExampleFormatAsSentences() {
	err := errors.NewNestedError(
		errors.New("foo"),
		errors.New("bar1"),
		errors.New("bar2"),
	)
	fmt.Println("Standard output:")
	fmt.Println(errors.Format(err))
	fmt.Println()
	fmt.Println("FormatAsSentences:")
	fmt.Println(errors.Format(err, errors.FormatAsSentences()))
	// output:
	// Standard output:
	// foo:
	// - bar1
	// - bar2
	//
	// FormatAsSentences:
	// Foo:
	// - Bar1.
	// - Bar2.
}

func Example_format() {
	errs := errors.NewMultiError()
	errs.Append(errors.New("foo 1"))
	errs.Append(errors.New("foo 2"))
	errs.Append(errors.Wrapf(errors.New("original error"), "new error %s", "message"))

	fmt.Println("Standard output:")
	fmt.Println(errors.Format(errs.ErrorOrNil()))
	fmt.Println()
	fmt.Println("FormatWithUnwrap:")
	fmt.Println(errors.Format(errs.ErrorOrNil(), errors.FormatWithUnwrap()))
	// output:
	// Standard output:
	// - foo 1
	// - foo 2
	// - new error message
	//
	// FormatWithUnwrap:
	// - foo 1
	// - foo 2
	// - new error message (*errors.wrappedError):
	//   - original error
}

func Example_multiError() {
	errs := errors.NewMultiError()
	errs.Append(errors.New("foo 1"))
	errs.Append(errors.New("foo 2"))

	sub := errs.AppendNested(errors.New("some sub error 1"))
	sub.Append(errors.New("foo 3"))
	sub.Append(errors.New("foo 4"))

	errs.AppendWithPrefixf(errors.New("nested error"), "some %s", "prefix")

	errs.Append(errors.NewNestedError(
		errors.New("some sub error 2"),
		errors.New("foo 5"),
		errors.New("foo 6"),
	))

	fmt.Println(errors.Format(errs))
	// output:
	// - foo 1
	// - foo 2
	// - some sub error 1:
	//   - foo 3
	//   - foo 4
	// - some prefix: nested error
	// - some sub error 2:
	//   - foo 5
	//   - foo 6
}
