package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log.With("component", "notify")}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(ctx context.Context, m Message) error {
	n.log.InfoContext(ctx, "new listing", "listing_id", m.ListingID, "url", m.URL)
	return nil
}
