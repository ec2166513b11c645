package ghactions

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Level is the minimum level written. Defaults to slog.LevelDebug.
	Level slog.Leveler
}

// Handler is a slog.Handler emitting workflow commands. Debug records become
// ::debug::, warnings ::warning:: and errors ::error::; info records are
// written as plain lines.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	attrs  string
	prefix string
}

// NewHandler returns a Handler writing to w.
func NewHandler(w io.Writer, opts *HandlerOptions) *Handler {
	h := &Handler{mu: &sync.Mutex{}, w: w, level: slog.LevelDebug}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&b, h.prefix, a)
		return true
	})
	text := b.String()

	var line string
	switch {
	case r.Level < slog.LevelInfo:
		line = Command("debug", nil, text)
	case r.Level < slog.LevelWarn:
		line = text
	case r.Level < slog.LevelError:
		line = Command("warning", nil, text)
	default:
		line = Command("error", nil, text)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&b, h.prefix, a)
	}
	h2 := *h
	h2.attrs = b.String()
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range group {
			appendAttr(b, prefix, ga)
		}
		return
	}

	b.WriteString(" ")
	b.WriteString(prefix)
	b.WriteString(a.Key)
	b.WriteString("=")
	b.WriteString(a.Value.String())
}
