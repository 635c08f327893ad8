package log

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewCliLogger creates a logger for command line tools,
// info messages go to the stdout, warnings and errors to the stderr.
func NewCliLogger(stdout io.Writer, stderr io.Writer, verbose bool) Logger {
	var cores []zapcore.Core
	cores = append(cores, stdoutCore(stdout, verbose))
	cores = append(cores, stderrCore(stderr))
	return loggerFromZap(zap.New(zapcore.NewTee(cores...)))
}

func stdoutCore(stdout io.Writer, verbose bool) zapcore.Core {
	minLevel := InfoLevel
	if verbose {
		minLevel = DebugLevel
	}
	levels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= minLevel && l < WarnLevel
	})
	return zapcore.NewCore(consoleEncoder(), zapcore.AddSync(stdout), levels)
}

func stderrCore(stderr io.Writer) zapcore.Core {
	levels := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= WarnLevel
	})
	return zapcore.NewCore(consoleEncoder(), zapcore.AddSync(stderr), levels)
}

// consoleEncoder writes only the message, without the level and timestamp.
func consoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "message",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.CapitalLevelEncoder,
	})
}
