package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"flatwatch/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err returns nil when v is OK, otherwise a domain.ErrConfig listing every
// problem.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return domain.Failf(stageConfig, domain.ErrConfig,
		"config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// providerRadii are the search radii (miles) the provider offers.
var providerRadii = []float64{0, 0.25, 0.5, 1, 3, 5, 10, 15, 20, 30, 40}

// NormalizeAndValidate returns a trimmed copy of cfg and what is wrong
// with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	// ---- search (all keys required) ----
	s := &out.Search
	if s.Location == nil {
		res.addErr("search.location is required")
	} else if loc := strings.TrimSpace(*s.Location); loc == "" {
		res.addErr("search.location cannot be empty")
	} else {
		s.Location = &loc
	}

	if s.Radius == nil {
		res.addErr("search.radius is required")
	} else if *s.Radius < 0 {
		res.addErr("search.radius must be >= 0")
	} else if !knownRadius(*s.Radius) {
		res.addWarn("search.radius %g is not one of the provider's radii %v; results may be unexpected", *s.Radius, providerRadii)
	}

	checkBounds := func(minKey, maxKey string, lo, hi *int) {
		if lo == nil {
			res.addErr("search.%s is required", minKey)
		} else if *lo < 0 {
			res.addErr("search.%s must be >= 0 (0 means no bound)", minKey)
		}
		if hi == nil {
			res.addErr("search.%s is required", maxKey)
		} else if *hi < 0 {
			res.addErr("search.%s must be >= 0 (0 means no bound)", maxKey)
		}
		if lo != nil && hi != nil && *lo > 0 && *hi > 0 && *lo > *hi {
			res.addErr("search.%s (%d) is greater than search.%s (%d)", minKey, *lo, maxKey, *hi)
		}
	}
	checkBounds("min_price", "max_price", s.MinPrice, s.MaxPrice)
	checkBounds("min_room", "max_room", s.MinRoom, s.MaxRoom)

	if s.BuyRent == nil {
		res.addErr("search.buy_rent is required")
	} else if ch, err := domain.ParseChannel(*s.BuyRent); err != nil {
		res.addErr("search.%v", err)
	} else {
		v := string(ch)
		s.BuyRent = &v
	}

	// ---- http ----
	if out.HTTP.TimeoutSeconds <= 0 {
		res.addErr("http.timeout_seconds must be > 0")
	} else if out.HTTP.TimeoutSeconds > 60 {
		res.addWarn("http.timeout_seconds is high (%d); a stuck request will hold the run that long", out.HTTP.TimeoutSeconds)
	}
	if out.HTTP.RequestsPerSecond < 0 {
		res.addErr("http.requests_per_second must be >= 0")
	} else if out.HTTP.RequestsPerSecond > 10 {
		res.addWarn("http.requests_per_second is very high (%g) and may get the client blocked", out.HTTP.RequestsPerSecond)
	}

	// ---- state ----
	out.State.Backend = strings.ToLower(strings.TrimSpace(out.State.Backend))
	switch out.State.Backend {
	case "file", "sqlite":
	default:
		res.addErr("state.backend must be file or sqlite, got %q", out.State.Backend)
	}
	out.State.Path = strings.TrimSpace(out.State.Path)
	if out.State.Path == "" {
		res.addErr("state.path is required")
	}
	if out.State.Key != "" && out.State.Backend == "file" {
		res.addWarn("state.key is ignored by the file backend")
	}

	// ---- notify ----
	out.Notify.Driver = strings.ToLower(strings.TrimSpace(out.Notify.Driver))
	switch out.Notify.Driver {
	case "discord", "log":
	default:
		res.addErr("notify.driver must be discord or log, got %q", out.Notify.Driver)
	}
	if out.Notify.MaxMessages != nil && *out.Notify.MaxMessages <= 0 {
		res.addWarn("notify.max_messages is %d; every new listing will be posted", *out.Notify.MaxMessages)
	}

	// ---- logging ----
	switch strings.ToLower(out.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		res.addErr("logging.level must be debug, info, warn or error, got %q", out.Logging.Level)
	}
	if out.Logging.Fluent.Enabled && strings.TrimSpace(out.Logging.Fluent.Host) == "" {
		res.addErr("logging.fluent.host is required when logging.fluent.enabled=true")
	}

	return out, res
}

func knownRadius(r float64) bool {
	for _, k := range providerRadii {
		if r == k {
			return true
		}
	}
	return false
}

// SaveAtomic validates cfg and writes it to path via a temp file and
// rename, keeping the previous file as path+".bak".
func SaveAtomic(path string, cfg Config) error {
	if _, res := NormalizeAndValidate(cfg); !res.OK() {
		return res.Err()
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
