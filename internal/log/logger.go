// Package log is edshell's logging facade. It keeps a small printf-style API
// plus structured fields, and delegates formatting and output to logrus.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"edshell/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, optionally structured, log entries
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

type options struct {
	out   io.Writer
	json  bool
	file  string
	level logrus.Level
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log output to w instead of stdout
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithFile additionally appends log output to the file at path
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level ("debug", "info", "warn", "error")
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
		}
	}
}

// NewLogger creates a logger writing text entries to stdout by default
func NewLogger(opts ...Option) *Logger {
	o := &options{out: os.Stdout, level: logrus.DebugLevel}
	for _, opt := range opts {
		opt(o)
	}

	l := &Logger{base: logrus.New(), fields: logrus.Fields{}}
	out := o.out
	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			l.file = f
			out = io.MultiWriter(o.out, f)
		} else {
			fmt.Fprintf(o.out, "log: cannot open %s: %v\n", o.file, err)
		}
	}
	l.base.SetOutput(out)
	l.base.SetLevel(o.level)
	if o.json {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.base.SetFormatter(textFormatter{})
	}
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SetDebug toggles debug output for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// With returns a child logger carrying the extra fields
func (l *Logger) With(fields ...Field) *Logger {
	merged := make(logrus.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &Logger{base: l.base, fields: merged, file: l.file}
}

// WithError returns a child logger describing err
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	return l.With(fields...)
}

// WithContext is a hook for request-scoped fields; nothing is extracted yet.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l
}

func (l *Logger) Debug(msg string)                          { l.log(logrus.DebugLevel, 2, msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.log(logrus.DebugLevel, 2, format, args...) }
func (l *Logger) Info(msg string)                           { l.log(logrus.InfoLevel, 2, msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(logrus.InfoLevel, 2, format, args...) }
func (l *Logger) Warn(msg string)                           { l.log(logrus.WarnLevel, 2, msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(logrus.WarnLevel, 2, format, args...) }
func (l *Logger) Error(msg string)                          { l.log(logrus.ErrorLevel, 2, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(logrus.ErrorLevel, 2, format, args...) }

func (l *Logger) log(level logrus.Level, skip int, format string, args ...interface{}) {
	if level == logrus.DebugLevel && !isDebug {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	entry := l.base.WithFields(l.fields)
	if _, file, line, ok := runtime.Caller(skip); ok {
		entry = entry.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	entry.Log(level, msg)
}

// LogWithFields returns the package logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger describing err
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// Info logs a formatted message
func Info(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, 2, format, args...)
}

// Infof is an alias of Info
func Infof(format string, args ...interface{}) {
	logger.log(logrus.InfoLevel, 2, format, args...)
}

// Debug logs a formatted message when debug output is on
func Debug(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, 2, format, args...)
}

// Debugf is an alias of Debug
func Debugf(format string, args ...interface{}) {
	logger.log(logrus.DebugLevel, 2, format, args...)
}

// Warn logs a formatted warning
func Warn(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, 2, format, args...)
}

// Warnf is an alias of Warn
func Warnf(format string, args ...interface{}) {
	logger.log(logrus.WarnLevel, 2, format, args...)
}

// Error logs a formatted error
func Error(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, 2, format, args...)
}

// Errorf is an alias of Error
func Errorf(format string, args ...interface{}) {
	logger.log(logrus.ErrorLevel, 2, format, args...)
}

// textFormatter renders "[time] LEVEL: message key=value ..."
type textFormatter struct{}

func (textFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), levelName(e.Level), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelName(level logrus.Level) string {
	if level == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(level.String())
}
