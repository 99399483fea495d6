// Package log centralizes structured logging conventions: shared field and
// component names plus a constructor that stamps records with their
// originating component.
package log

import (
	"log/slog"
	"os"
)

// New creates a component-scoped logger writing text records to stdout.
func New(component string, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(FieldComponent, component)
}
