package rightmove

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"flatwatch/internal/domain"
)

const stageResolve = "resolve location"

var errNoCandidates = errors.New("no candidates")

type typeAheadResponse struct {
	TypeAheadLocations []struct {
		DisplayName        string `json:"displayName"`
		LocationIdentifier string `json:"locationIdentifier"`
	} `json:"typeAheadLocations"`
}

// TokenizeLocation upper-cases text and splits it into 2-character path
// segments: "Camden" -> "CA/MD/EN".
func TokenizeLocation(text string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(text)))
	var parts []string
	for i := 0; i < len(runes); i += 2 {
		end := min(i+2, len(runes))
		parts = append(parts, url.PathEscape(string(runes[i:end])))
	}
	return strings.Join(parts, "/")
}

// ResolveLocation returns the provider's identifier for the best match of
// text, e.g. "REGION^61294".
func (c *Client) ResolveLocation(ctx context.Context, text string) (string, error) {
	token := TokenizeLocation(text)
	if token == "" {
		return "", domain.Failf(stageResolve, domain.ErrResolution, "location is empty")
	}

	endpoint := strings.TrimRight(c.cfg.TypeAheadURL, "/") + "/" + token + "/"

	var data typeAheadResponse
	if err := c.getJSON(ctx, endpoint, &data); err != nil {
		return "", domain.Fail(stageResolve, domain.ErrResolution, err)
	}
	if len(data.TypeAheadLocations) == 0 {
		return "", domain.Fail(stageResolve, domain.ErrResolution, errNoCandidates)
	}

	best := data.TypeAheadLocations[0]
	id := strings.TrimSpace(best.LocationIdentifier)
	if id == "" {
		return "", domain.Failf(stageResolve, domain.ErrResolution, "first candidate %q has no identifier", best.DisplayName)
	}

	c.log.Info("location resolved", "location", text, "match", best.DisplayName, "identifier", id)
	return id, nil
}
