// Command flatwatch runs one Rightmove search, diffs it against the last
// run and posts the new listings to Discord.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flatwatch/internal/config"
	"flatwatch/internal/domain"
	"flatwatch/internal/logging"
	"flatwatch/internal/poll"
	"flatwatch/internal/rightmove"
	"flatwatch/internal/secrets"
	"flatwatch/internal/store"
)

type flags struct {
	configPath string
	envPath    string
	dryRun     bool
	init       bool
	history    int
	setWebhook string
	delWebhook bool
}

func parseFlags(args []string) (flags, error) {
	var f flags
	set := flag.NewFlagSet("flatwatch", flag.ContinueOnError)
	set.StringVar(&f.configPath, "config", "config.yml", "path to the YAML config")
	set.StringVar(&f.envPath, "env", "", "optional .env file (default: ./.env when present)")
	set.BoolVar(&f.dryRun, "dry-run", false, "search and diff, log messages instead of posting, keep state")
	set.BoolVar(&f.init, "init", false, "write a default config if none exists and exit")
	set.IntVar(&f.history, "history", 0, "print the last N runs (sqlite backend) and exit")
	set.StringVar(&f.setWebhook, "set-webhook", "", "store the Discord webhook URL in the OS keychain and exit")
	set.BoolVar(&f.delWebhook, "delete-webhook", false, "remove the Discord webhook URL from the OS keychain and exit")
	if err := set.Parse(args); err != nil {
		return f, err
	}
	return f, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(exitCode(domain.Fail("flags", domain.ErrConfig, err)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, f)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "flatwatch:", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context, f flags) error {
	if err := loadEnv(f.envPath); err != nil {
		return domain.Fail("env", domain.ErrConfig, err)
	}

	if f.init {
		created, err := config.EnsureUserConfig(f.configPath)
		if err != nil {
			return domain.Fail("init", domain.ErrConfig, err)
		}
		if created {
			fmt.Println("wrote", f.configPath)
		} else {
			fmt.Println(f.configPath, "already exists")
		}
		return nil
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	if f.setWebhook != "" {
		if err := secrets.SetWebhookURL(cfg.Notify.KeyringAccount, f.setWebhook); err != nil {
			return domain.Fail("set webhook", domain.ErrConfig, err)
		}
		fmt.Println("webhook stored in keychain as", cfg.Notify.KeyringAccount)
		return nil
	}
	if f.delWebhook {
		if err := secrets.DeleteWebhookURL(cfg.Notify.KeyringAccount); err != nil {
			return domain.Fail("delete webhook", domain.ErrConfig, err)
		}
		fmt.Println("webhook removed from keychain:", cfg.Notify.KeyringAccount)
		return nil
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:         cfg.Logging.Level,
		JSON:          cfg.Logging.JSON,
		FluentEnabled: cfg.Logging.Fluent.Enabled,
		FluentHost:    cfg.Logging.Fluent.Host,
		FluentPort:    cfg.Logging.Fluent.Port,
		FluentTag:     cfg.Logging.Fluent.Tag,
	})
	if err != nil {
		return domain.Fail("logging", domain.ErrConfig, err)
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintln(os.Stderr, "flatwatch: close log sink:", err)
		}
	}()

	if f.history > 0 {
		return printHistory(ctx, cfg, f.history)
	}

	filters, err := cfg.Search.Filters()
	if err != nil {
		return err
	}

	unlock, err := store.Lock(cfg.State.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Warn("release state lock", "err", err)
		}
	}()

	st, err := store.Open(cfg.State.Backend, cfg.State.Path, cfg.State.Key)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := buildNotifier(cfg.Notify, f.dryRun, log)
	if err != nil {
		return err
	}

	client := rightmove.New(rightmove.Config{
		SearchURL:         cfg.HTTP.SearchURL,
		TypeAheadURL:      cfg.HTTP.TypeAheadURL,
		UserAgent:         cfg.HTTP.UserAgent,
		Timeout:           time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
	}, log)

	res, err := poll.RunOnce(ctx, poll.Deps{
		Searcher: client,
		Store:    st,
		Notifier: n,
		Log:      log,
	}, poll.Options{
		Filters:         filters,
		MaxMessages:     *cfg.Notify.MaxMessages,
		ContinueOnError: cfg.Notify.ContinueOnError,
		DryRun:          f.dryRun,
	})
	if err != nil {
		log.Error("run failed", "run_id", res.RunID, "err", err)
		return err
	}
	log.Info("done", slog.Group("run",
		"id", res.RunID, "found", res.Found, "new", res.New, "notified", res.Notified))
	return nil
}

// loadEnv loads path, or ./.env when path is empty. A missing default file
// is fine; a missing explicit one is not.
func loadEnv(path string) error {
	if path != "" {
		return godotenv.Load(path)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
