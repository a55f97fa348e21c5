package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the global JSON logger. Every record carries a service
// attribute so the two binaries stay distinguishable in a shared stream.
func Setup(service string) {
	slog.SetDefault(slog.New(StdoutHandler(service)))
}

// StdoutHandler is the console leg of the log fan-out.
func StdoutHandler(service string) slog.Handler {
	return newJSONHandler(os.Stdout, service)
}

func newJSONHandler(w io.Writer, service string) slog.Handler {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return h.WithAttrs([]slog.Attr{slog.String("service", service)})
}
