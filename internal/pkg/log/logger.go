package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger is default implementation of the Logger interface.
// It is wrapped zap.SugaredLogger with an optional message prefix.
type zapLogger struct {
	sugar  *zap.SugaredLogger
	prefix string
}

func loggerFromZap(l *zap.Logger) *zapLogger {
	return &zapLogger{sugar: l.Sugar()}
}

func loggerFromZapCore(core zapcore.Core) *zapLogger {
	return loggerFromZap(zap.New(core))
}

// NewNopLogger drops all messages.
func NewNopLogger() Logger {
	return loggerFromZap(zap.NewNop())
}

func (l *zapLogger) AddPrefix(prefix string) Logger {
	return &zapLogger{sugar: l.sugar, prefix: l.prefix + prefix}
}

func (l *zapLogger) Debug(args ...any) {
	l.sugar.Debug(l.message(args))
}

func (l *zapLogger) Info(args ...any) {
	l.sugar.Info(l.message(args))
}

func (l *zapLogger) Warn(args ...any) {
	l.sugar.Warn(l.message(args))
}

func (l *zapLogger) Error(args ...any) {
	l.sugar.Error(l.message(args))
}

func (l *zapLogger) Debugf(template string, args ...any) {
	l.sugar.Debug(l.messagef(template, args))
}

func (l *zapLogger) Infof(template string, args ...any) {
	l.sugar.Info(l.messagef(template, args))
}

func (l *zapLogger) Warnf(template string, args ...any) {
	l.sugar.Warn(l.messagef(template, args))
}

func (l *zapLogger) Errorf(template string, args ...any) {
	l.sugar.Error(l.messagef(template, args))
}

func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}

func (l *zapLogger) message(args []any) string {
	msg := fmt.Sprint(args...)
	if l.prefix == "" {
		return msg
	}
	return l.prefix + " " + msg
}

func (l *zapLogger) messagef(template string, args []any) string {
	msg := fmt.Sprintf(template, args...)
	if l.prefix == "" {
		return msg
	}
	return l.prefix + " " + msg
}
