// Package logging holds the process-wide structured logger shared by the
// batch runner and the compositor. It logs nothing until SetLogger is
// called.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled is false so nothing is
// formatted.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// Logger returns the current logger. It is never nil.
func Logger() *slog.Logger { return loggerPtr.Load() }

// SetLogger replaces the shared logger. Pass nil to silence it again.
//
// Levels used:
//   - [slog.LevelDebug]: per-pair geometry (scale factor, draw rect)
//   - [slog.LevelInfo]: batch start and summary
//   - [slog.LevelWarn]: skipped pairs and failed batches
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}
