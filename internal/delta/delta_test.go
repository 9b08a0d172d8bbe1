package delta

import (
	"reflect"
	"testing"

	"flatwatch/internal/domain"
)

func set(ids ...domain.ListingID) domain.ListingSet { return domain.NewListingSet(ids...) }

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		current  domain.ListingSet
		previous domain.ListingSet
		want     []domain.ListingID
	}{
		{"first run", set("1", "2"), nil, []domain.ListingID{"1", "2"}},
		{"empty previous", set("1", "2"), set(), []domain.ListingID{"1", "2"}},
		{"unchanged", set("1", "2"), set("1", "2"), []domain.ListingID{}},
		{"one new", set("111", "222"), set("111"), []domain.ListingID{"222"}},
		{"gone listings ignored", set("3"), set("1", "2"), []domain.ListingID{"3"}},
		{"empty current", set(), set("1"), []domain.ListingID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.current, tt.previous).Sorted()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Detect = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestDetectMatchesSetDifference(t *testing.T) {
	current := set()
	previous := set()
	for i := 0; i < 200; i++ {
		id := domain.ListingID(string(rune('a'+i%26)) + string(rune('a'+i/26)))
		if i%3 != 0 {
			current.Add(id)
		}
		if i%2 == 0 {
			previous.Add(id)
		}
	}

	got := Detect(current, previous)
	for id := range current {
		if got.Has(id) == previous.Has(id) {
			t.Fatalf("id %s: in result=%v, in previous=%v", id, got.Has(id), previous.Has(id))
		}
	}
	for id := range got {
		if !current.Has(id) {
			t.Fatalf("id %s in result but not in current", id)
		}
	}
}

func TestDetectDoesNotMutateInputs(t *testing.T) {
	current := set("1", "2")
	previous := set("1")
	_ = Detect(current, previous)
	if current.Len() != 2 || previous.Len() != 1 {
		t.Errorf("inputs changed: current=%v previous=%v", current, previous)
	}
}

func TestSelect(t *testing.T) {
	s := set("500", "20", "7", "1000", "31", "4")

	if got, want := Select(s, 5), []domain.ListingID{"4", "7", "20", "31", "500"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Select(5) = %v; want %v", got, want)
	}
	if got := Select(s, 0); len(got) != 6 {
		t.Errorf("Select(0) returned %d ids, want 6", len(got))
	}
	if got := Select(set(), 5); len(got) != 0 {
		t.Errorf("Select on empty set returned %v", got)
	}
}
