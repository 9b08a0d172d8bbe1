package secrets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService groups flatwatch secrets in the OS keychain.
	KeyringService = "flatwatch"

	WebhookEnv = "DISCORD_WEBHOOK_URL"
)

var ErrNoWebhook = errors.New("webhook URL not found (set it in the keychain or " + WebhookEnv + ")")

// WebhookURL looks in the keychain first, then the environment. A keychain
// that cannot be reached is logged and the environment is still tried; the
// keychain error is returned only when the environment has nothing either.
func WebhookURL(keyringAccount string, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var keychainErr error
	if strings.TrimSpace(keyringAccount) != "" {
		u, err := keyring.Get(KeyringService, keyringAccount)
		switch {
		case err == nil && strings.TrimSpace(u) != "":
			return strings.TrimSpace(u), nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			keychainErr = fmt.Errorf("keychain lookup %s/%s: %w", KeyringService, keyringAccount, err)
			log.Warn("keychain unavailable, trying "+WebhookEnv, "account", keyringAccount, "err", err)
		}
	}

	if u := strings.TrimSpace(os.Getenv(WebhookEnv)); u != "" {
		return u, nil
	}
	if keychainErr != nil {
		return "", errors.Join(ErrNoWebhook, keychainErr)
	}
	return "", ErrNoWebhook
}

func SetWebhookURL(keyringAccount, webhookURL string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(webhookURL) == "" {
		return errors.New("webhook URL is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, webhookURL)
}

func DeleteWebhookURL(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
