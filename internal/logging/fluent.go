package logging

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// poster is the part of *fluent.Fluent the handler needs.
type poster interface {
	Post(tag string, message interface{}) error
}

// fluentHandler forwards records to fluentd, tagged by level.
type fluentHandler struct {
	client poster
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func newFluentHandler(client poster, level slog.Leveler) *fluentHandler {
	return &fluentHandler{client: client, level: level}
}

func (h *fluentHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *fluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]interface{}, len(h.attrs)+r.NumAttrs()+3)
	for _, a := range h.attrs {
		addAttr(data, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(data, h.group, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	data["level"] = r.Level.String()
	data["message"] = r.Message
	data["timestamp"] = ts.UTC().Format(time.RFC3339Nano)

	return h.client.Post(strings.ToLower(r.Level.String()), data)
}

func (h *fluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *fluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		next.group = h.group + "." + name
	} else {
		next.group = name
	}
	return &next
}

func addAttr(data map[string]interface{}, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addAttr(data, key, ga)
		}
		return
	}
	if err, ok := a.Value.Any().(error); ok {
		data[key] = err.Error()
		return
	}
	data[key] = a.Value.Any()
}
