package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 100
	maxLogBackups = 5
	maxLogAgeDays = 28
)

// Setup configures the standard library logger to emit structured JSON and
// returns the underlying slog.Logger. Lines go to stderr unless file is set,
// in which case they are written to a size-rotated file. Every line carries
// the service name and, when provided, the environment.
func Setup(service, env, file string, level slog.Leveler) *slog.Logger {
	var out io.Writer = os.Stderr
	if file = strings.TrimSpace(file); file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
			Compress:   true,
		}
	}
	handler, attrs := newHandler(out, service, env, level)
	base := slog.New(handler).With(attrArgs(attrs)...)
	slog.SetDefault(base)

	// Bridge the standard library logger so existing packages continue to work.
	stdBridge := slog.NewLogLogger(handler.WithAttrs(attrs), slog.LevelInfo)
	stdBridge.SetFlags(0)
	log.SetOutput(stdBridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return base
}

// New returns a logger with the same layout as Setup writing to w. It leaves
// the process defaults untouched.
func New(w io.Writer, service, env string, level slog.Leveler) *slog.Logger {
	handler, attrs := newHandler(w, service, env, level)
	return slog.New(handler).With(attrArgs(attrs)...)
}

func newHandler(w io.Writer, service, env string, level slog.Leveler) (slog.Handler, []slog.Attr) {
	if level == nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				return slog.Attr{Key: "timestamp", Value: attr.Value}
			}
			if attr.Key == slog.LevelKey {
				level := strings.ToUpper(attr.Value.String())
				return slog.String("severity", level)
			}
			if attr.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: attr.Value}
			}
			return attr
		},
	})

	attrs := []slog.Attr{
		slog.String("service", strings.TrimSpace(service)),
	}
	if env = strings.TrimSpace(env); env != "" {
		attrs = append(attrs, slog.String("env", env))
	}
	return handler, attrs
}

func attrArgs(attrs []slog.Attr) []any {
	withArgs := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		withArgs = append(withArgs, attr)
	}
	return withArgs
}
