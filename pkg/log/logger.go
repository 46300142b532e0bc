// Package log wires zerolog behind small per-module loggers.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Level int

// The levels accepted by SetLevel.
const (
	Debug Level = iota
	Info
	Warning
	Error
)

// Config selects the sink and format of the process logger
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // console or json
	Output io.Writer // defaults to stderr
}

var base atomic.Pointer[zerolog.Logger]

// Init replaces the process logger
func Init(cfg Config) error {
	if cfg.Level != "" {
		level, err := ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		SetLevel(level)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	case "json":
	default:
		return fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	l := zerolog.New(out).With().Timestamp().Logger()
	base.Store(&l)
	return nil
}

// SetSink keeps the console format and redirects output to w
func SetSink(w io.Writer) {
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000", NoColor: true}).
		With().Timestamp().Logger()
	base.Store(&l)
}

// SetLevel sets the global verbosity
func SetLevel(level Level) {
	switch level {
	case Debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case Info:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case Warning:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info":
		return Info, nil
	case "warn", "warning":
		return Warning, nil
	case "error":
		return Error, nil
	default:
		return Info, fmt.Errorf("log: invalid level %q", s)
	}
}

// Logger tags every record with its module name. It satisfies core.Logger.
type Logger struct {
	module string
}

// New creates a named logger. Loggers follow later Init/SetSink calls.
func New(module string) *Logger {
	return &Logger{module: module}
}

func (l *Logger) event(level zerolog.Level) *zerolog.Event {
	return base.Load().WithLevel(level).Str("module", l.module)
}

// Printf logs at info level. Trailing newlines are dropped.
func (l *Logger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.event(zerolog.DebugLevel).Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.event(zerolog.InfoLevel).Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.event(zerolog.WarnLevel).Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.event(zerolog.ErrorLevel).Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Fields starts a structured record at info level
func (l *Logger) Fields() *zerolog.Event {
	return l.event(zerolog.InfoLevel)
}

// Since logs an info record with the elapsed time since start
func (l *Logger) Since(start time.Time, msg string) {
	l.event(zerolog.InfoLevel).Dur("elapsed", time.Since(start)).Msg(msg)
}

func init() {
	SetSink(os.Stderr)
	SetLevel(Warning)
}
