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
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records either as "key=value" pairs on one
// line or as an indented JSON-like object.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
	object     bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	object bool,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
		object:     object,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() && h.formatTime != nil {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		fields = append(fields, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.object {
		buf.WriteString("{\n")

		for i, a := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  ")
			writeKey(buf, a.Key)
			buf.WriteString(": ")
			writeValue(buf, a.Value)
		}

		buf.WriteString("\n}")
	} else {
		for i, a := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			writeKey(buf, a.Key)
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	c := *h
	if c.group != "" {
		name = c.group + "." + name
	}

	c.group = name

	return &c
}

func writeKey(buf *bytes.Buffer, key string) {
	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
}

func writeColored(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		writeColored(buf, colorCyan, v.String())

	case slog.KindInt64:
		writeColored(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		writeColored(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		writeColored(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindDuration:
		writeColored(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		writeColored(buf, colorBlue, v.Time().String())

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			writeKey(buf, a.Key)
			buf.WriteByte('=')
			writeValue(buf, a.Value)
		}

		buf.WriteByte('}')

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			color := colorBlue

			switch {
			case level >= slog.LevelError:
				color = colorRed
			case level >= slog.LevelWarn:
				color = colorYellow
			case level >= slog.LevelInfo:
				color = colorGreen
			}

			writeColored(buf, color, strings.ToUpper(Level(level).String()))

			return
		}

		if v.Any() == nil {
			writeColored(buf, colorGray, "null")

			return
		}

		writeColored(buf, colorCyan, fmt.Sprint(v.Any()))

	default:
		writeColored(buf, colorCyan, v.String())
	}
}
