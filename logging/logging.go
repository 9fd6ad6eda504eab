// Package logging provides the operational (as opposed to study-progress)
// logger used internally by the engine: a small leveled wrapper over
// go.uber.org/zap, following the shape of the teacher's own logging
// package (a Level enum with string/JSON round-tripping plus a
// zap-backed Logger).
package logging

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a log level, serializable to/from its string form.
type Level int

// The four levels the engine's internal diagnostics use.
const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "Debug"
	case INFO:
		return "Info"
	case WARN:
		return "Warn"
	case ERROR:
		return "Error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// LevelFromString parses a level's string form, case-insensitively, and
// treats "warning" as an alias for WARN the way the teacher's config
// loader does for user-supplied log levels.
func LevelFromString(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warn", "warning":
		return WARN, nil
	case "error":
		return ERROR, nil
	default:
		return 0, errors.Errorf("unknown log level %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := LevelFromString(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is the engine's internal operational logger; within this module
// it is the backend of the default reach.StdLogger. It is distinct from
// the reach.Logger plugin contract, which reports study progress to the
// host.
type Logger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a Logger at the given level, writing console-encoded
// output, matching the console encoding the teacher's tests configure for
// quiet test runs.
func NewLogger(level Level) (*Logger, error) {
	cfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level.zapLevel()),
		Encoding:          "console",
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig:     zap.NewDevelopmentEncoderConfig(),
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// NewTestLogger builds a Logger that discards everything below ERROR, for
// use in unit tests that want real logging plumbing without noisy output.
func NewTestLogger() *Logger {
	l, err := NewLogger(ERROR)
	if err != nil {
		// zap's in-process console encoder cannot fail to build; this is
		// unreachable outside of a broken zap installation.
		panic(err)
	}
	return l
}

// Debugf logs at DEBUG.
func (l *Logger) Debugf(template string, args ...interface{}) { l.sugar.Debugf(template, args...) }

// Infof logs at INFO.
func (l *Logger) Infof(template string, args ...interface{}) { l.sugar.Infof(template, args...) }

// Warnf logs at WARN.
func (l *Logger) Warnf(template string, args ...interface{}) { l.sugar.Warnf(template, args...) }

// Errorf logs at ERROR.
func (l *Logger) Errorf(template string, args ...interface{}) { l.sugar.Errorf(template, args...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
