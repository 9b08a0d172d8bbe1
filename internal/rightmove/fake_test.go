package rightmove

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeProvider serves the typeahead and search endpoints from memory.
type fakeProvider struct {
	mu          sync.Mutex
	locations   []string
	resultCount string
	// pages maps offset -> ids; offsets without an entry return no properties
	pages       map[int][]int
	failAt      int
	offsets     []int
	typeAheadOK bool
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/typeAhead/uknostreet/", func(w http.ResponseWriter, r *http.Request) {
		type loc struct {
			DisplayName        string `json:"displayName"`
			LocationIdentifier string `json:"locationIdentifier"`
		}
		out := struct {
			TypeAheadLocations []loc `json:"typeAheadLocations"`
		}{TypeAheadLocations: []loc{}}
		for _, id := range f.locations {
			out.TypeAheadLocations = append(out.TypeAheadLocations, loc{DisplayName: "Match", LocationIdentifier: id})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/api/_search", func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("index"))

		f.mu.Lock()
		f.offsets = append(f.offsets, offset)
		f.mu.Unlock()

		if f.failAt > 0 && offset == f.failAt {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}

		var props []map[string]any
		for _, id := range f.pages[offset] {
			props = append(props, map[string]any{
				"id":             id,
				"displayAddress": fmt.Sprintf("%d Test Street", id),
				"bedrooms":       2,
				"price": map[string]any{
					"displayPrices": []map[string]string{{"displayPrice": "£2,000 pcm"}},
				},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resultCount": f.resultCount,
			"properties":  props,
		})
	})
	return mux
}

func (f *fakeProvider) requestedOffsets() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.offsets...)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(Config{
		SearchURL:    srv.URL + "/api/_search",
		TypeAheadURL: srv.URL + "/typeAhead/uknostreet",
		Timeout:      2 * time.Second,
	}, nil)
}
