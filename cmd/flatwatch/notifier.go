package main

import (
	"log/slog"
	"time"

	"flatwatch/internal/config"
	"flatwatch/internal/domain"
	"flatwatch/internal/notify"
	"flatwatch/internal/secrets"
)

const discordTimeout = 10 * time.Second

// buildNotifier picks the delivery channel. Dry runs always log.
func buildNotifier(cfg config.Notify, dryRun bool, log *slog.Logger) (notify.Notifier, error) {
	if dryRun || cfg.Driver == "log" {
		return notify.NewLog(log), nil
	}

	webhook, err := secrets.WebhookURL(cfg.KeyringAccount, log)
	if err != nil {
		return nil, domain.Fail("notify", domain.ErrConfig, err)
	}
	return notify.NewDiscord(webhook, discordTimeout), nil
}
