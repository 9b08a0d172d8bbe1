package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ListingID identifies a property advertisement on the provider.
type ListingID string

// UnmarshalJSON accepts both numeric and string ids.
func (id *ListingID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ListingID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("listing id: %w", err)
	}
	*id = ListingID(n.String())
	return nil
}

// Less orders ids numerically when both are unsigned integers, otherwise
// lexicographically. Numeric ids come first.
func (id ListingID) Less(other ListingID) bool {
	a, aErr := strconv.ParseUint(string(id), 10, 64)
	b, bErr := strconv.ParseUint(string(other), 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return id < other
	}
}

// Listing is the summary of one search hit.
type Listing struct {
	ID       ListingID
	Address  string
	Price    string
	Bedrooms int
}

// ListingSet is an unordered set of listing ids.
type ListingSet map[ListingID]struct{}

func NewListingSet(ids ...ListingID) ListingSet {
	s := make(ListingSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id and reports whether it was not already present.
// Empty ids are ignored.
func (s ListingSet) Add(id ListingID) bool {
	if id == "" {
		return false
	}
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s ListingSet) Has(id ListingID) bool {
	_, ok := s[id]
	return ok
}

func (s ListingSet) Len() int { return len(s) }

// Difference returns the ids of s that are not in other. A nil other is
// the empty set.
func (s ListingSet) Difference(other ListingSet) ListingSet {
	out := make(ListingSet)
	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the ids in ListingID.Less order.
func (s ListingSet) Sorted() []ListingID {
	out := make([]ListingID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
