// Package poll runs the discovery pipeline once.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"flatwatch/internal/delta"
	"flatwatch/internal/domain"
	"flatwatch/internal/notify"
	"flatwatch/internal/rightmove"
	"flatwatch/internal/store"
)

// Searcher collects every listing id matching the filters.
type Searcher interface {
	Aggregate(ctx context.Context, f domain.SearchFilters) (rightmove.Result, error)
}

type Deps struct {
	Searcher Searcher
	Store    store.ListingStore
	Notifier notify.Notifier
	Log      *slog.Logger

	Now      func() time.Time
	NewRunID func() string
}

type Options struct {
	Filters         domain.SearchFilters
	MaxMessages     int
	ContinueOnError bool
	// DryRun leaves the stored state untouched.
	DryRun bool
}

type Result struct {
	RunID    string
	Found    int
	New      int
	Notified int
	FirstRun bool
	Messages []notify.Message
}

// RunOnce loads the stored set, searches, diffs, saves the new set and
// posts one message per new listing. It stops at the first failing stage.
func RunOnce(ctx context.Context, d Deps, opts Options) (res Result, err error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewRunID == nil {
		d.NewRunID = uuid.NewString
	}
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}
	if d.Searcher == nil || d.Store == nil || d.Notifier == nil {
		return res, errors.New("poll: searcher, store and notifier are required")
	}

	res.RunID = d.NewRunID()
	started := d.Now()
	log := d.Log.With("component", "poll", "run_id", res.RunID)

	defer func() {
		recordRun(ctx, d, log, res, started, err)
	}()

	log.Info("run started", "filters", opts.Filters.String(), "dry_run", opts.DryRun)

	previous, existed, err := d.Store.Load(ctx)
	if err != nil {
		return res, err
	}
	res.FirstRun = !existed

	found, err := d.Searcher.Aggregate(ctx, opts.Filters)
	if err != nil {
		return res, err
	}
	res.Found = found.IDs.Len()

	fresh := delta.Detect(found.IDs, previous)
	res.New = fresh.Len()
	log.Info("delta computed", "found", res.Found, "previous", previous.Len(), "new", res.New, "first_run", res.FirstRun)

	if opts.DryRun {
		log.Info("dry run: state not saved")
	} else if err := d.Store.Save(ctx, found.IDs); err != nil {
		return res, err
	}

	res.Messages = notify.FormatMessages(fresh, found.Listings, opts.MaxMessages)
	if len(res.Messages) < res.New {
		log.Info("notifications capped", "new", res.New, "sending", len(res.Messages))
	}

	res.Notified, err = notify.Deliver(ctx, d.Notifier, res.Messages, opts.ContinueOnError, log)
	if err != nil {
		return res, err
	}

	log.Info("run finished", "notified", res.Notified, "took", d.Now().Sub(started).Round(time.Millisecond))
	return res, nil
}

func recordRun(ctx context.Context, d Deps, log *slog.Logger, res Result, started time.Time, runErr error) {
	rec, ok := d.Store.(store.RunRecorder)
	if !ok {
		return
	}
	r := store.RunRecord{
		RunID:      res.RunID,
		StartedAt:  started,
		FinishedAt: d.Now(),
		Found:      res.Found,
		New:        res.New,
		Notified:   res.Notified,
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	// history failures are logged, never returned
	if err := rec.RecordRun(context.WithoutCancel(ctx), r); err != nil {
		log.Warn("record run failed", "err", err)
	}
}
