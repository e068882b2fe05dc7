package obs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig points at a fluentd / fluent-bit forward input.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

// NewFluentClient dials nothing up front; connection errors surface on the first post.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.TagPrefix,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create fluent client: %w", err)
	}
	return client, nil
}

// FluentPoster is the subset of *fluent.Fluent the handler needs.
type FluentPoster interface {
	Post(tag string, message interface{}) error
}

// FluentHandler ships slog records to fluentd tagged by level.
type FluentHandler struct {
	poster FluentPoster
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func NewFluentHandler(poster FluentPoster, level slog.Leveler) *FluentHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &FluentHandler{poster: poster, level: level}
}

func (h *FluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FluentHandler) Handle(_ context.Context, record slog.Record) error {
	data := make(map[string]interface{}, record.NumAttrs()+len(h.attrs)+3)
	for _, attr := range h.attrs {
		addAttr(data, "", attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		addAttr(data, h.group, attr)
		return true
	})
	data["level"] = strings.ToLower(record.Level.String())
	data["message"] = record.Message
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	data["timestamp"] = ts.UTC().Format(time.RFC3339Nano)
	return h.poster.Post(strings.ToLower(record.Level.String()), data)
}

func (h *FluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, attr := range attrs {
		if h.group != "" {
			attr.Key = h.group + "." + attr.Key
		}
		next.attrs = append(next.attrs, attr)
	}
	return &next
}

func (h *FluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func addAttr(data map[string]interface{}, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, inner := range attr.Value.Group() {
			addAttr(data, key, inner)
		}
		return
	}
	switch v := attr.Value.Any().(type) {
	case error:
		data[key] = v.Error()
	case fmt.Stringer:
		data[key] = v.String()
	default:
		data[key] = v
	}
}
