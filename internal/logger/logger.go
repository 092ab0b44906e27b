package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger *slog.Logger

type Options struct {
	Level  string
	Format string
	// File, when set, receives logs through a rotating writer instead of stderr.
	File string
}

func Init(level slog.Level) {
	setDefault(newTextHandler(os.Stderr, level))
}

func InitJSON(level slog.Level) {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	setDefault(slog.NewJSONHandler(os.Stderr, opts))
}

// Setup configures the default logger from config values.
func Setup(o Options) error {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stderr
	if o.File != "" {
		w = &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	switch strings.ToLower(o.Format) {
	case "", "text":
		setDefault(newTextHandler(w, level))
	case "json":
		setDefault(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return fmt.Errorf("unknown log format %q", o.Format)
	}
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("bad log level %q: %w", s, err)
	}
	return level, nil
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		Level:           charmlog.Level(level),
		Prefix:          "habiterm",
	})
}

func setDefault(h slog.Handler) {
	defaultLogger = slog.New(h)
	slog.SetDefault(defaultLogger)
}

func Get() *slog.Logger {
	if defaultLogger == nil {
		Init(slog.LevelInfo)
	}
	return defaultLogger
}

func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}
