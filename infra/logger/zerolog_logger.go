package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where and how records are written.
type Options struct {
	// Console switches to the human readable writer used in development.
	Console bool
	Level   zerolog.Level
	// Out defaults to stdout.
	Out io.Writer
}

// OptionsFromEnv reads APP_ENV ("dev" enables the console writer) and
// LOG_LEVEL.
func OptionsFromEnv() Options {
	return Options{
		Console: strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "dev"),
		Level:   parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewWithOptions builds a ZerologLogger tagged with component.
func NewWithOptions(component string, opts Options) *ZerologLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).With().
		Timestamp().
		Str("service", ServiceName).
		Str("component", component).
		Logger().
		Level(opts.Level)
	return &ZerologLogger{log: z}
}

// parseLevel maps a LOG_LEVEL value to a zerolog level. Empty or unknown
// values keep debug.
func parseLevel(raw string) zerolog.Level {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.DebugLevel
	}
	return lvl
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
