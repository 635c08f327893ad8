package errors

import (
	"runtime"
	"strings"
)

// StackTrace is a stack of program counters, from the error creation place.
type StackTrace []uintptr

type stackTracer interface {
	StackTrace() StackTrace
}

func callers() StackTrace {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// creationPlace resolves the trace to the file:line where the error was created.
// The program counters are return addresses and constructors may be inlined,
// so the trace must be expanded by runtime.CallersFrames, a direct
// FuncForPC lookup can point into the standard errors package instead.
func creationPlace(trace StackTrace) (file string, line int, ok bool) {
	frames := runtime.CallersFrames(trace)
	for {
		frame, more := frames.Next()
		if frame.File != "" && !errorsPackageFrame(frame.Function) {
			return frame.File, frame.Line, true
		}
		if !more {
			return "", 0, false
		}
	}
}

func errorsPackageFrame(fn string) bool {
	return strings.HasPrefix(fn, "errors.") || strings.Contains(fn, "/utils/errors.")
}
