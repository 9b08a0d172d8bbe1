// Package notify turns new listings into webhook messages and delivers them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"flatwatch/internal/domain"
)

const stageNotify = "notify"

// Notifier delivers one message.
type Notifier interface {
	Name() string
	Send(ctx context.Context, m Message) error
}

// Deliver sends msgs in order and returns how many went out. By default
// the first failure stops the batch; with continueOnError every message is
// attempted and all failures are returned together.
func Deliver(ctx context.Context, n Notifier, msgs []Message, continueOnError bool, log *slog.Logger) (sent int, err error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	var errs []error
	for i, m := range msgs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := n.Send(ctx, m); err != nil {
			log.Warn("delivery failed", "notifier", n.Name(), "listing_id", m.ListingID, "err", err)
			errs = append(errs, fmt.Errorf("message %d/%d (listing %s): %w", i+1, len(msgs), m.ListingID, err))
			if !continueOnError {
				break
			}
			continue
		}
		sent++
		log.Info("posted", "notifier", n.Name(), "listing_id", m.ListingID)
	}

	if len(errs) > 0 {
		return sent, domain.Fail(stageNotify, domain.ErrNotification, errors.Join(errs...))
	}
	return sent, nil
}
