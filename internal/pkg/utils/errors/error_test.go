package errors_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keboola/go-orchestrator/internal/pkg/utils/errors"
)

func TestErrorf_Unwrap(t *testing.T) {
	t.Parallel()

	original := errors.New("original")
	err := errors.Errorf("wrapped: %w", original)
	assert.Equal(t, "wrapped: original", err.Error())
	assert.True(t, errors.Is(err, original))
}

func TestWrap_ReplacesMessage(t *testing.T) {
	t.Parallel()

	original := errors.New("original")
	err := errors.Wrap(original, "new message")
	assert.Equal(t, "new message", err.Error())
	assert.True(t, errors.Is(err, original))
}

func TestFormatWithStack(t *testing.T) {
	t.Parallel()

	err := errors.New("some error")
	out := errors.Format(err, errors.FormatWithStack())
	assert.Regexp(t, regexp.MustCompile(`^some error \[.+error_test\.go:\d+\]$`), out)
}

func TestWithStack_KeepsMessage(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(errors.New("original error"))
	assert.Equal(t, "original error", errors.Format(err))
}

func TestMultiError_Empty(t *testing.T) {
	t.Parallel()

	errs := errors.NewMultiError()
	assert.Equal(t, 0, errs.Len())
	require.NoError(t, errs.ErrorOrNil())
}

func TestMultiError_Flatten(t *testing.T) {
	t.Parallel()

	sub := errors.NewMultiError()
	sub.Append(errors.New("foo 1"))
	sub.Append(errors.New("foo 2"))

	errs := errors.NewMultiError()
	errs.Append(errors.New("bar"))
	errs.Append(sub)
	assert.Equal(t, 3, errs.Len())
}

func TestMultiError_Is(t *testing.T) {
	t.Parallel()

	target := errors.New("target")
	errs := errors.NewMultiError()
	errs.Append(errors.New("other"))
	errs.Append(target)
	assert.True(t, errors.Is(errs.ErrorOrNil(), target))
}

func TestNestedError_Is(t *testing.T) {
	t.Parallel()

	main := errors.New("main")
	sub := errors.New("sub")
	err := errors.NewNestedError(main, sub)
	assert.True(t, errors.Is(err, main))
	assert.True(t, errors.Is(err, sub))
}

func TestPrefixError(t *testing.T) {
	t.Parallel()

	err := errors.PrefixError(errors.New("value is invalid"), "cannot process task")
	assert.Equal(t, "cannot process task: value is invalid", err.Error())
}
