package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// discordMaxContent is the webhook's limit on message content length.
const discordMaxContent = 2000

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	hc         *http.Client
}

func NewDiscord(webhookURL string, timeout time.Duration) *DiscordNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DiscordNotifier{
		webhookURL: webhookURL,
		hc:         &http.Client{Timeout: timeout},
	}
}

func (d *DiscordNotifier) Name() string { return "discord" }

func (d *DiscordNotifier) Send(ctx context.Context, m Message) error {
	content := m.Text
	if r := []rune(content); len(r) > discordMaxContent {
		content = string(r[:discordMaxContent])
	}

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("discord build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := d.hc.Do(req)
	if err != nil {
		return fmt.Errorf("discord post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("discord status %s: %q", res.Status, string(b))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}
