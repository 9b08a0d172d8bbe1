package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"flatwatch/internal/config"
	"flatwatch/internal/domain"
	"flatwatch/internal/store"
)

func printHistory(ctx context.Context, cfg config.Config, n int) error {
	if cfg.State.Backend != store.BackendSQLite {
		return domain.Failf("history", domain.ErrConfig, "run history needs state.backend: sqlite (have %q)", cfg.State.Backend)
	}
	st, err := store.OpenSQLite(cfg.State.Path, cfg.State.Key)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.RecentRuns(ctx, n)
	if err != nil {
		return err
	}
	return writeHistory(os.Stdout, runs)
}

func writeHistory(w io.Writer, runs []store.RunRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tTOOK\tFOUND\tNEW\tNOTIFIED\tERROR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
			r.Found, r.New, r.Notified, r.Error)
	}
	return tw.Flush()
}
