// Package logger owns the process-wide slog instance. Init it once from
// config at startup; everywhere else uses L() or the package-level helpers.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dkurbatov/datingapp-backend/internal/config"
)

// Options selects handler, verbosity and the component attribute every line
// carries.
type Options struct {
	Level     string // debug | info | warn | error
	Format    string // text | json
	Component string
	AddSource bool
}

// current is swapped atomically so loggers handed out before a re-Init keep
// working with their old handler.
var current atomic.Pointer[slog.Logger]

// InitFromConfig configures the global logger from app config.
func InitFromConfig(c *config.Config) {
	if c == nil {
		Init(Options{})
		return
	}
	Init(Options{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		Component: c.Log.Component,
		AddSource: c.Log.Source,
	})
}

// Init builds and installs the global logger. Later calls replace it.
func Init(opts Options) {
	hopts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: opts.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, hopts)
	} else {
		// human-readable timestamps for the text handler
		hopts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.DateTime))
			}
			return a
		}
		handler = slog.NewTextHandler(os.Stdout, hopts)
	}

	log := slog.New(handler)
	if opts.Component != "" {
		log = log.With("component", opts.Component)
	}
	current.Store(log)
}

// L returns the global logger, installing an info-level text logger on first
// use when Init was never called.
func L() *slog.Logger {
	if log := current.Load(); log != nil {
		return log
	}
	Init(Options{})
	return current.Load()
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
