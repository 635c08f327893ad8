package errors

import (
	"fmt"
	"strings"
	"unicode"
)

type FormatConfig struct {
	// WithStack includes the "[file:line]" of the error creation place in the output.
	WithStack bool
	// WithUnwrap includes wrapped errors in the output.
	WithUnwrap bool
	// AsSentences capitalizes each message and adds a trailing dot.
	AsSentences bool
}

type FormatOption func(*FormatConfig)

// MessageFormatter formats each error message, see defaultMessageFormatter.
type MessageFormatter func(msg string, trace StackTrace, config FormatConfig) string

// PrefixFormatter formats a prefix followed by a list of errors, see defaultPrefixFormatter.
type PrefixFormatter func(prefix string) string

func FormatWithStack() FormatOption {
	return func(c *FormatConfig) {
		c.WithStack = true
	}
}

func FormatWithUnwrap() FormatOption {
	return func(c *FormatConfig) {
		c.WithUnwrap = true
	}
}

func FormatAsSentences() FormatOption {
	return func(c *FormatConfig) {
		c.AsSentences = true
	}
}

func Format(err error, opts ...FormatOption) string {
	w := NewWriter(defaultMessageFormatter(), defaultPrefixFormatter(), opts...)
	w.WriteError(err)
	return w.String()
}

func defaultMessageFormatter() MessageFormatter {
	return func(msg string, trace StackTrace, config FormatConfig) string {
		if config.AsSentences {
			msg = firstToUpper(msg)
			if !strings.HasSuffix(msg, ".") && !strings.HasSuffix(msg, ":") {
				msg += "."
			}
		}
		if config.WithStack && len(trace) > 0 {
			if file, line, ok := creationPlace(trace); ok {
				msg = fmt.Sprintf("%s [%s:%d]", msg, file, line)
			}
		}
		return msg
	}
}

func defaultPrefixFormatter() PrefixFormatter {
	return func(prefix string) string {
		return strings.TrimRight(prefix, ".,:") + ":"
	}
}

func firstToUpper(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
