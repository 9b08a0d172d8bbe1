package rightmove

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"flatwatch/internal/domain"
)

const stageSearch = "search"

type searchResponse struct {
	ResultCount json.RawMessage `json:"resultCount"`
	Properties  []struct {
		ID             domain.ListingID `json:"id"`
		DisplayAddress string           `json:"displayAddress"`
		Bedrooms       int              `json:"bedrooms"`
		Price          struct {
			DisplayPrices []struct {
				DisplayPrice string `json:"displayPrice"`
			} `json:"displayPrices"`
		} `json:"price"`
	} `json:"properties"`
}

// Result is everything one aggregation collected.
type Result struct {
	LocationID  string
	ResultCount int
	Pages       int
	IDs         domain.ListingSet
	Listings    map[domain.ListingID]domain.Listing
}

// ParseResultCount reads the provider's resultCount, which is a string
// formatted with thousands separators ("1,234").
func ParseResultCount(s string) (int, error) {
	clean := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
	if clean == "" {
		return 0, fmt.Errorf("resultCount is empty")
	}
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("resultCount %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("resultCount %q is negative", s)
	}
	return n, nil
}

func rawResultCount(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, fmt.Errorf("resultCount missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		// some responses carry a bare number
		s = string(raw)
	}
	return ParseResultCount(s)
}

// lastOffset is the exclusive upper bound on page offsets.
func lastOffset(resultCount int) int {
	return min(resultCount, ResultCap)
}

// Aggregate resolves the location, then walks every page of the search up
// to the provider cap. Any failed page fails the whole aggregation.
func (c *Client) Aggregate(ctx context.Context, f domain.SearchFilters) (Result, error) {
	locationID, err := c.ResolveLocation(ctx, f.Location)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		LocationID: locationID,
		IDs:        make(domain.ListingSet),
		Listings:   make(map[domain.ListingID]domain.Listing),
	}

	first, err := c.fetchPage(ctx, f, locationID, 0)
	if err != nil {
		return Result{}, err
	}
	res.Pages++
	res.ResultCount, err = rawResultCount(first.ResultCount)
	if err != nil {
		return Result{}, domain.Fail(stageSearch, domain.ErrNetwork, err)
	}
	res.collect(first)

	end := lastOffset(res.ResultCount)
	for offset := PageSize; offset < end; offset += PageSize {
		page, err := c.fetchPage(ctx, f, locationID, offset)
		if err != nil {
			return Result{}, err
		}
		res.Pages++
		res.collect(page)
	}

	c.log.Info("search complete",
		"location_id", locationID,
		"result_count", res.ResultCount,
		"pages", res.Pages,
		"unique", res.IDs.Len(),
	)
	return res, nil
}

func (c *Client) fetchPage(ctx context.Context, f domain.SearchFilters, locationID string, offset int) (searchResponse, error) {
	var page searchResponse

	query, err := BuildSearchQuery(f, locationID, offset)
	if err != nil {
		return page, domain.Fail(stageSearch, domain.ErrNetwork, err)
	}
	if err := c.getJSON(ctx, SearchURL(c.cfg.SearchURL, query), &page); err != nil {
		return page, domain.Fail(stageSearch, domain.ErrNetwork, fmt.Errorf("offset %d: %w", offset, err))
	}
	return page, nil
}

func (r *Result) collect(page searchResponse) {
	for _, p := range page.Properties {
		if !r.IDs.Add(p.ID) {
			continue
		}
		l := domain.Listing{
			ID:       p.ID,
			Address:  strings.TrimSpace(p.DisplayAddress),
			Bedrooms: p.Bedrooms,
		}
		if len(p.Price.DisplayPrices) > 0 {
			l.Price = strings.TrimSpace(p.Price.DisplayPrices[0].DisplayPrice)
		}
		r.Listings[p.ID] = l
	}
}
