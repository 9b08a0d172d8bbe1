package domain

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestListingIDUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want ListingID
	}{
		{`111`, "111"},
		{`"222"`, "222"},
		{`" 333 "`, "333"},
		{`123456789012`, "123456789012"},
	}

	for _, tt := range tests {
		var got ListingID
		if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("unmarshal %s = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestListingSetSortedIsNumericAware(t *testing.T) {
	s := NewListingSet("1000", "99", "abc", "222", "99")

	if s.Len() != 4 {
		t.Fatalf("len: got %d, want 4", s.Len())
	}
	got := s.Sorted()
	want := []ListingID{"99", "222", "1000", "abc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sorted: got %v, want %v", got, want)
	}
}

func TestListingSetAddIgnoresEmpty(t *testing.T) {
	s := NewListingSet()
	if s.Add("") {
		t.Error("empty id should not be added")
	}
	if !s.Add("1") || s.Add("1") {
		t.Error("Add should report true once, then false")
	}
}

func TestDifferenceWithNil(t *testing.T) {
	s := NewListingSet("1", "2")
	if got := s.Difference(nil); got.Len() != 2 {
		t.Errorf("difference with nil: got %d ids, want 2", got.Len())
	}
}

func TestStageErrorMatchesKindAndCause(t *testing.T) {
	err := Fail("search", ErrNetwork, io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrNetwork) {
		t.Error("expected errors.Is(err, ErrNetwork)")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected errors.Is(err, io.ErrUnexpectedEOF)")
	}
	if errors.Is(err, ErrResolution) {
		t.Error("unexpected match on ErrResolution")
	}
	if got := err.Error(); got != "search: search request failed: unexpected EOF" {
		t.Errorf("message: %q", got)
	}
}

func TestParseChannel(t *testing.T) {
	for _, in := range []string{"RENT", "rent", " Rent "} {
		if c, err := ParseChannel(in); err != nil || c != ChannelRent {
			t.Errorf("ParseChannel(%q) = %q, %v", in, c, err)
		}
	}
	if _, err := ParseChannel("LEASE"); err == nil {
		t.Error("expected error for LEASE")
	}
}
