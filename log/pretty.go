package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to the
// handler's output, so they render plain text unless it is a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	trace, debug, info, warn, fail          lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	fg := func(c string) lipgloss.Style { return base.Foreground(lipgloss.Color(c)) }

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler is a colorized slog.Handler. In text format each record is
// one line of key=value pairs; in JSON format each record is an indented
// object with unquoted values.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	style  palette
	attrs  []slog.Attr // pre-qualified with their groups
	groups []string
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		style: makePalette(w),
		json:  format == FormatJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, a)
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time))
	}

	level := r.Level
	builtin(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message))

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, fields, level)
	} else {
		h.writeLine(&buf, fields, level)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// qualify prefixes the key of a with the open groups.
func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) > 0 {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}

	return a
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	for _, a := range flatten("", fields) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a, level))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr, level slog.Level) {
	buf.WriteString("{\n")

	for i, a := range flatten("", fields) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a, level))
	}

	buf.WriteString("\n}\n")
}

// value renders the value of a, coloring the level field by severity.
func (h *prettyHandler) value(a slog.Attr, level slog.Level) string {
	v := a.Value.Resolve()

	if a.Key == slog.LevelKey {
		return h.style.level(level).Render(v.String())
	}

	switch v.Kind() {
	case slog.KindString:
		return h.style.str.Render(v.String())
	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")
	case slog.KindDuration:
		return h.style.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.style.when.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if v.Any() == nil {
			return h.style.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return h.style.no.Render(err.Error())
		}
	}

	return h.style.str.Render(v.String())
}

// flatten expands group values into dotted keys.
func flatten(prefix string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		key := a.Key
		if prefix != "" && key != "" {
			key = prefix + "." + key
		} else if prefix != "" {
			key = prefix
		}

		if a.Value.Kind() == slog.KindGroup {
			out = append(out, flatten(key, a.Value.Group())...)

			continue
		}

		a.Key = key
		out = append(out, a)
	}

	return out
}
