package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"flatwatch/internal/domain"
)

const stageConfig = "config"

// Search holds the user's filters. Every key is required, so the fields are
// pointers and a nil means the key was missing.
type Search struct {
	Location *string  `yaml:"location"`
	Radius   *float64 `yaml:"radius"`
	MinPrice *int     `yaml:"min_price"`
	MaxPrice *int     `yaml:"max_price"`
	MinRoom  *int     `yaml:"min_room"`
	MaxRoom  *int     `yaml:"max_room"`
	BuyRent  *string  `yaml:"buy_rent"`
}

type HTTP struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	UserAgent         string  `yaml:"user_agent,omitempty"`
	SearchURL         string  `yaml:"search_url,omitempty"`
	TypeAheadURL      string  `yaml:"typeahead_url,omitempty"`
}

type State struct {
	Backend string `yaml:"backend"` // file | sqlite
	Path    string `yaml:"path"`
	Key     string `yaml:"key,omitempty"` // sqlite only
}

type Notify struct {
	Driver          string `yaml:"driver"` // discord | log
	MaxMessages     *int   `yaml:"max_messages"` // nil means 5; 0 or less means all
	ContinueOnError bool   `yaml:"continue_on_error"`
	KeyringAccount  string `yaml:"keyring_account"`
}

type Fluent struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Tag     string `yaml:"tag"`
}

type Logging struct {
	Level  string `yaml:"level"`
	JSON   bool   `yaml:"json"`
	Fluent Fluent `yaml:"fluent"`
}

type Config struct {
	Search  Search  `yaml:"search"`
	HTTP    HTTP    `yaml:"http"`
	State   State   `yaml:"state"`
	Notify  Notify  `yaml:"notify"`
	Logging Logging `yaml:"logging"`
}

func ptr[T any](v T) *T { return &v }

// Default is the config written by -init: a Camden rental search.
func Default() Config {
	cfg := Config{
		Search: Search{
			Location: ptr("Camden"),
			Radius:   ptr(0.25),
			MinPrice: ptr(100),
			MaxPrice: ptr(2500),
			MinRoom:  ptr(1),
			MaxRoom:  ptr(2),
			BuyRent:  ptr("RENT"),
		},
	}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.TimeoutSeconds == 0 {
		cfg.HTTP.TimeoutSeconds = 10
	}
	if cfg.HTTP.RequestsPerSecond == 0 {
		cfg.HTTP.RequestsPerSecond = 2
	}
	if cfg.State.Backend == "" {
		cfg.State.Backend = "file"
	}
	if cfg.State.Path == "" {
		if cfg.State.Backend == "sqlite" {
			cfg.State.Path = "flatwatch.db"
		} else {
			cfg.State.Path = "flatwatch-state.json"
		}
	}
	if cfg.Notify.Driver == "" {
		cfg.Notify.Driver = "discord"
	}
	if cfg.Notify.MaxMessages == nil {
		cfg.Notify.MaxMessages = ptr(5)
	}
	if cfg.Notify.KeyringAccount == "" {
		cfg.Notify.KeyringAccount = "flatwatch:discord"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Fluent.Port == 0 {
		cfg.Logging.Fluent.Port = 24224
	}
	if cfg.Logging.Fluent.Tag == "" {
		cfg.Logging.Fluent.Tag = "flatwatch"
	}
}

// Load reads and validates the YAML config at path. Every failure wraps
// domain.ErrConfig.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, domain.Fail(stageConfig, domain.ErrConfig, err)
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, domain.Fail(stageConfig, domain.ErrConfig, fmt.Errorf("parse yaml: %w", err))
	}

	ApplyEnv(&cfg)
	applyDefaults(&cfg)

	cfg, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		return Config{}, res.Err()
	}
	return cfg, nil
}

// Filters converts a validated Search into domain filters.
func (s Search) Filters() (domain.SearchFilters, error) {
	if s.Location == nil || s.Radius == nil || s.MinPrice == nil || s.MaxPrice == nil ||
		s.MinRoom == nil || s.MaxRoom == nil || s.BuyRent == nil {
		return domain.SearchFilters{}, domain.Failf(stageConfig, domain.ErrConfig, "search section is incomplete")
	}
	ch, err := domain.ParseChannel(*s.BuyRent)
	if err != nil {
		return domain.SearchFilters{}, domain.Fail(stageConfig, domain.ErrConfig, err)
	}
	return domain.SearchFilters{
		Location: *s.Location,
		Radius:   *s.Radius,
		MinPrice: domain.Bound(*s.MinPrice),
		MaxPrice: domain.Bound(*s.MaxPrice),
		MinRooms: domain.Bound(*s.MinRoom),
		MaxRooms: domain.Bound(*s.MaxRoom),
		Channel:  ch,
	}, nil
}
