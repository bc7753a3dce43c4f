// Package logging holds the logger shared by pixio and its sub-packages.
//
// The root package exposes it as pixio.SetLogger and pixio.Logger; the
// sub-packages read it here so they do not import the root package.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. It reports every level as disabled, so
// slog never builds the record in the first place.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns the silent logger installed until Set is called.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// current holds the logger every package reads; decode goroutines may log
// while another goroutine swaps it.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(Nop())
}

// Set installs l for pixio and its sub-packages. A nil l silences them again.
func Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	current.Store(l)
}

// Logger returns the installed logger, never nil.
func Logger() *slog.Logger {
	return current.Load()
}

// Or lets a per-session logger override the installed one.
func Or(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
