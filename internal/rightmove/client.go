// Package rightmove talks to the Rightmove typeahead and search APIs.
package rightmove

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultSearchURL    = "https://www.rightmove.co.uk/api/_search"
	DefaultTypeAheadURL = "https://www.rightmove.co.uk/typeAhead/uknostreet"
	DefaultUserAgent    = "flatwatch/1.0 (+local)"

	// responses larger than this are treated as malformed
	maxBodyBytes = 8 << 20
)

type Config struct {
	SearchURL         string
	TypeAheadURL      string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *HostLimiter
	log     *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.TypeAheadURL == "" {
		cfg.TypeAheadURL = DefaultTypeAheadURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: NewHostLimiter(cfg.RequestsPerSecond, 1),
		log:     log.With("component", "rightmove"),
	}
}

type statusError struct {
	Status string
	Body   string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return "upstream status " + e.Status
	}
	return fmt.Sprintf("upstream status %s: %q", e.Status, e.Body)
}

// getJSON fetches rawURL and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	c.log.Debug("request", "url", rawURL, "status", res.StatusCode, "took", time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return &statusError{Status: res.Status, Body: string(b)}
	}

	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
