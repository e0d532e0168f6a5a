// Package logger provides the colored slog handler used by every binary and
// the request-id context helpers shared by both HTTP front ends.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	Reset     = "\033[0m"
	Red       = "\033[31m"
	Green     = "\033[32m"
	Yellow    = "\033[33m"
	Magenta   = "\033[35m"
	Cyan      = "\033[36m"
	White     = "\033[37m"
	BoldBlue  = "\033[1;34m"
	BoldWhite = "\033[1;37m"
)

var levelColors = map[slog.Level]string{
	slog.LevelDebug: Cyan,
	slog.LevelInfo:  Green,
	slog.LevelWarn:  Yellow,
	slog.LevelError: Red,
}

type requestKey string

const (
	requestIDKey requestKey = "requestID"

	// RequestIDAttr is the attribute key the handler prints as a prefix.
	RequestIDAttr = "request_id"
)

// ColoredHandler writes one colored line per record. The request id, taken
// from the record or from the context, is printed before the message.
type ColoredHandler struct {
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	prefix string
	mu     *sync.Mutex
	out    io.Writer
}

func NewColoredHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ColoredHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		out:  w,
	}
}

func (h *ColoredHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *ColoredHandler) Handle(ctx context.Context, r slog.Record) error {
	levelColor, ok := levelColors[r.Level]
	if !ok {
		levelColor = White
	}

	var line strings.Builder
	fmt.Fprintf(&line, "%s%s%s ", Magenta, r.Time.Format("15:04:05.000"), Reset)
	fmt.Fprintf(&line, "%s%-6s%s ", levelColor, strings.ToUpper(r.Level.String()), Reset)

	requestID := GetRequestID(ctx)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == RequestIDAttr && a.Value.Kind() == slog.KindString {
			requestID = a.Value.String()
		}
		return true
	})
	if requestID != "" {
		fmt.Fprintf(&line, "%s[%s]%s ", BoldBlue, requestID, Reset)
	}

	fmt.Fprintf(&line, "%s%s%s ", BoldWhite, r.Message, Reset)

	// h.attrs already carry the group prefix they were added under.
	for _, a := range h.attrs {
		writeAttr(&line, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != RequestIDAttr {
			writeAttr(&line, h.prefix, a)
		}
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, strings.TrimRight(line.String(), " "))
	return err
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, inner := range a.Value.Group() {
			writeAttr(b, prefix+a.Key+".", inner)
		}
		return
	}

	val := a.Value.String()
	if a.Value.Kind() == slog.KindString {
		val = fmt.Sprintf("%q", val)
	}
	fmt.Fprintf(b, "%s%s%s%s=%s ", Yellow, prefix, a.Key, Reset, val)
}

func (h *ColoredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *ColoredHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// ParseLevel maps debug, info, warn and error to a slog level. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs a colored handler on stdout as the default slog logger.
func Setup(level string) *ColoredHandler {
	return SetupWriter(os.Stdout, level)
}

// SetupWriter is Setup with an explicit destination. CLIs log to stderr so
// stdout stays machine readable.
func SetupWriter(w io.Writer, level string) *ColoredHandler {
	handler := NewColoredHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})

	slog.SetDefault(slog.New(handler))

	return handler
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
