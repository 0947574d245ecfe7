package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handler.
type palette struct {
	key, str, num, msg, src lipgloss.Style
	level                   map[Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return &palette{
		key: fg("8"),
		str: fg("6"),
		num: fg("3"),
		msg: r.NewStyle().Bold(true),
		src: fg("8").Italic(true),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("4"),
			LevelDebug: fg("5"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3"),
			LevelError: fg("1").Bold(true),
		},
	}
}

// levelStyle gives the style of the most severe defined level at or below l.
func (p *palette) levelStyle(l Level) lipgloss.Style {
	best, found := LevelTrace, false
	for k := range p.level {
		if k <= l && (!found || k > best) {
			best, found = k, true
		}
	}
	return p.level[best]
}

// prettyHandler writes one line per record, styled with lipgloss.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    *palette
	pre    []byte
	prefix string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   new(sync.Mutex),
		w:    w,
		pal:  newPalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	lo := slog.LevelInfo
	if h.opts.Level != nil {
		lo = h.opts.Level.Level()
	}
	return level >= lo
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); !a.Equal(slog.Attr{}) {
			buf.WriteString(h.pal.key.Render(a.Value.String()))
			buf.WriteByte(' ')
		}
	}
	lv := h.replace(slog.Any(slog.LevelKey, r.Level))
	buf.WriteString(h.pal.levelStyle(Level(r.Level)).Render(lv.Value.String()))
	if h.opts.AddSource && r.PC != 0 {
		if f := r.Source(); f != nil {
			buf.WriteByte(' ')
			buf.WriteString(h.pal.src.Render(f.File + ":" + strconv.Itoa(f.Line)))
		}
	}
	buf.WriteByte(' ')
	buf.WriteString(h.pal.msg.Render(r.Message))
	buf.Write(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		h.attr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	buf := bytes.NewBuffer(append([]byte(nil), h.pre...))
	for _, a := range attrs {
		h.attr(buf, h.prefix, a)
	}
	n.pre = buf.Bytes()
	return &n
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	n := *h
	n.prefix = h.prefix + name + "."
	return &n
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}
	return h.opts.ReplaceAttr(nil, a)
}

// attr writes a key=value pair, flattening groups into dotted keys.
func (h *prettyHandler) attr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			h.attr(buf, p, g)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(h.pal.key.Render(prefix + a.Key + "="))
	switch a.Value.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.pal.num.Render(a.Value.String()))
	default:
		buf.WriteString(h.pal.str.Render(a.Value.String()))
	}
}
