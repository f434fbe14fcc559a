// Package jlog is the harness's structured logging surface, adapted from
// the teacher repository's slog-based leveled logger (see log/logger.go and
// log/root.go upstream): a small Logger interface over log/slog, plus a
// package-level root logger and per-module enable/disable gating so a
// verbose harness run doesn't drown callers in coordinator chatter.
package jlog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12
)

// Modules known to the harness. Callers may register additional ones with
// EnableModule/DisableModule.
const (
	Generator   = "generator"
	Coordinator = "coordinator"
	ThreadGroup = "threadgroup"
	Registry    = "registry"
	Profiler    = "profiler"
	Output      = "output"
	CLI         = "cli"
)

// Logger writes leveled, module-scoped key/value pairs to a slog.Handler.
type Logger interface {
	With(args ...any) Logger
	Write(level slog.Level, module string, msg string, args ...any)
	Trace(module string, msg string, args ...any)
	Debug(module string, msg string, args ...any)
	Info(module string, msg string, args ...any)
	Warn(module string, msg string, args ...any)
	Error(module string, msg string, args ...any)
	Crit(module string, msg string, args ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger returns a logger with the given handler.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func (l *logger) Write(level slog.Level, module string, msg string, args ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(slog.String("module", module))
	r.Add(args...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) With(args ...any) Logger { return &logger{inner: l.inner.With(args...)} }

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) Trace(module, msg string, args ...any) { l.Write(LevelTrace, module, msg, args...) }
func (l *logger) Debug(module, msg string, args ...any) { l.Write(LevelDebug, module, msg, args...) }
func (l *logger) Info(module, msg string, args ...any)  { l.Write(LevelInfo, module, msg, args...) }
func (l *logger) Warn(module, msg string, args ...any)  { l.Write(LevelWarn, module, msg, args...) }
func (l *logger) Error(module, msg string, args ...any) { l.Write(LevelError, module, msg, args...) }
func (l *logger) Crit(module, msg string, args ...any) {
	l.Write(LevelCrit, module, msg, args...)
	os.Exit(1)
}

var root atomic.Value

func init() {
	root.Store(NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LevelInfo})))
}

// SetDefault installs l as the process-wide root logger.
func SetDefault(l Logger) { root.Store(l) }

// Root returns the process-wide root logger.
func Root() Logger { return root.Load().(Logger) }

// InitLogger configures the root logger from a textual level name
// ("trace", "debug", "info", "warn", "error", "crit").
func InitLogger(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetDefault(NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func ParseLevel(s string) (slog.Level, error) {
	switch s {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit", "critical":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("jlog: invalid level %q", s)
	}
}

var (
	moduleMu      sync.RWMutex
	moduleEnabled = map[string]bool{
		Generator:   true,
		Coordinator: true,
		ThreadGroup: true,
		Registry:    true,
		Profiler:    true,
		Output:      true,
		CLI:         true,
	}
)

// EnableModule turns logging on for module.
func EnableModule(module string) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	moduleEnabled[module] = true
}

// DisableModule turns off the package-level Trace/Debug wrappers for module;
// Info/Warn/Error/Crit still pass through.
func DisableModule(module string) {
	moduleMu.Lock()
	defer moduleMu.Unlock()
	moduleEnabled[module] = false
}

func isModuleEnabled(module string) bool {
	moduleMu.RLock()
	defer moduleMu.RUnlock()
	enabled, ok := moduleEnabled[module]
	return !ok || enabled
}

// Trace/Debug/Info/Warn/Error/Crit are convenience wrappers around Root()
// that additionally gate Trace/Debug on per-module enablement.
func Trace(module, msg string, args ...any) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Trace(module, msg, args...)
}

func Debug(module, msg string, args ...any) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Debug(module, msg, args...)
}

func Info(module, msg string, args ...any)  { Root().Info(module, msg, args...) }
func Warn(module, msg string, args ...any)  { Root().Warn(module, msg, args...) }
func Error(module, msg string, args ...any) { Root().Error(module, msg, args...) }
func Crit(module, msg string, args ...any)  { Root().Crit(module, msg, args...) }

func New(args ...any) Logger { return Root().With(args...) }
