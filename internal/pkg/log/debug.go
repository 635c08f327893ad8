package log

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// NewDebugLogger captures all messages in memory, for use in tests.
func NewDebugLogger() DebugLogger {
	recorder := &recorder{lock: &sync.Mutex{}}
	return &debugLogger{zapLogger: loggerFromZapCore(recorder), recorder: recorder}
}

type debugLogger struct {
	*zapLogger
	recorder *recorder
}

type record struct {
	level   zapcore.Level
	message string
}

// recorder is a zapcore.Core that stores each log entry in memory.
type recorder struct {
	lock      *sync.Mutex
	records   []record
	connected io.Writer
}

func (l *debugLogger) ConnectTo(writer io.Writer) {
	l.recorder.lock.Lock()
	defer l.recorder.lock.Unlock()
	l.recorder.connected = writer
}

func (l *debugLogger) Truncate() {
	l.recorder.consume(func(record) bool { return true })
}

// AllMessages returns and consumes all recorded messages.
func (l *debugLogger) AllMessages() string {
	return l.recorder.consume(func(record) bool { return true })
}

func (l *debugLogger) DebugMessages() string {
	return l.recorder.consume(func(r record) bool { return r.level == DebugLevel })
}

func (l *debugLogger) InfoMessages() string {
	return l.recorder.consume(func(r record) bool { return r.level == InfoLevel })
}

func (l *debugLogger) WarnMessages() string {
	return l.recorder.consume(func(r record) bool { return r.level == WarnLevel })
}

func (l *debugLogger) ErrorMessages() string {
	return l.recorder.consume(func(r record) bool { return r.level == ErrorLevel })
}

func (l *debugLogger) WarnAndErrorMessages() string {
	return l.recorder.consume(func(r record) bool { return r.level >= WarnLevel })
}

func (r *recorder) Enabled(zapcore.Level) bool {
	return true
}

func (r *recorder) With([]zapcore.Field) zapcore.Core {
	return r
}

func (r *recorder) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return checked.AddCore(entry, r)
}

func (r *recorder) Write(entry zapcore.Entry, _ []zapcore.Field) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.records = append(r.records, record{level: entry.Level, message: entry.Message})
	if r.connected != nil {
		if _, err := fmt.Fprintln(r.connected, entry.Message); err != nil {
			return err
		}
	}
	return nil
}

func (r *recorder) Sync() error {
	return nil
}

// consume formats matched records as "LEVEL  message" lines and removes all records.
func (r *recorder) consume(match func(record) bool) string {
	r.lock.Lock()
	defer r.lock.Unlock()
	var out strings.Builder
	for _, record := range r.records {
		if match(record) {
			out.WriteString(strings.ToUpper(record.level.String()))
			out.WriteString("  ")
			out.WriteString(record.message)
			out.WriteString("\n")
		}
	}
	r.records = nil
	return out.String()
}
