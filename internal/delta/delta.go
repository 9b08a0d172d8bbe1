// Package delta works out which listings are new since the last run.
package delta

import "flatwatch/internal/domain"

// Detect returns current minus previous. A nil previous means there was no
// earlier run, so every current listing is new.
func Detect(current, previous domain.ListingSet) domain.ListingSet {
	return current.Difference(previous)
}

// Select returns at most n ids from s in ascending id order. n <= 0 selects
// everything.
func Select(s domain.ListingSet, n int) []domain.ListingID {
	ids := s.Sorted()
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
