package rightmove

import (
	"fmt"
	"net/url"
	"strconv"

	"flatwatch/internal/domain"
)

const (
	// PageSize is the number of listings the provider returns per page.
	PageSize = 24
	// ResultCap is the highest offset the provider will page to.
	ResultCap = 1000

	sortNewestListed = "6"
)

// BuildSearchQuery encodes one page of a search. Zero bounds are left out,
// which the provider reads as "no bound".
func BuildSearchQuery(f domain.SearchFilters, locationID string, offset int) (string, error) {
	if offset < 0 {
		return "", fmt.Errorf("negative offset %d", offset)
	}
	if locationID == "" {
		return "", fmt.Errorf("location identifier is empty")
	}

	q := url.Values{}
	q.Set("areaSizeUnit", "sqft")
	q.Set("channel", string(f.Channel))
	q.Set("currencyCode", "GBP")
	q.Set("includeSSTC", "false")
	q.Set("index", strconv.Itoa(offset))
	q.Set("isFetching", "false")
	q.Set("locationIdentifier", locationID)
	q.Set("numberOfPropertiesPerPage", strconv.Itoa(PageSize))
	q.Set("radius", strconv.FormatFloat(f.Radius, 'f', -1, 64))
	q.Set("sortType", sortNewestListed)
	q.Set("viewType", "LIST")

	bounds := []struct {
		key string
		b   domain.Bound
	}{
		{"minPrice", f.MinPrice},
		{"maxPrice", f.MaxPrice},
		{"minBedrooms", f.MinRooms},
		{"maxBedrooms", f.MaxRooms},
	}
	for _, p := range bounds {
		if v, ok := p.b.Param(); ok {
			q.Set(p.key, v)
		}
	}

	return q.Encode(), nil
}

// SearchURL joins the search endpoint and an encoded query.
func SearchURL(endpoint, query string) string {
	return endpoint + "?" + query
}

// DetailURL is the canonical page of a listing.
func DetailURL(id domain.ListingID) string {
	return "https://www.rightmove.co.uk/properties/" + url.PathEscape(string(id)) + "#/"
}
