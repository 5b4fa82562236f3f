package pixfx

import (
	"context"
	"log/slog"
)

// nopHandler discards every record. Enabled reports false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var logger = newNopLogger()

// SetLogger configures the package logger. By default pixfx logs nothing.
// Pass nil to restore the silent default.
//
// Levels used:
//   - [slog.LevelDebug]: backend selection, program compiles, pool growth
//   - [slog.LevelWarn]: GPU requested without a GPU context
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	logger = l
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	return logger
}
