package util

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewNameCollator returns the collator used for ordering display names.
// Collators keep internal buffers, so callers get a fresh one per sort.
func NewNameCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// SortNames orders display names in place using locale-aware,
// case-insensitive collation so that view and search names list the way
// users expect rather than by raw byte order.
func SortNames(names []string) {
	NewNameCollator().SortStrings(names)
}

// SortedNames returns a sorted copy of names, leaving the input untouched.
func SortedNames(names []string) []string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	SortNames(sorted)
	return sorted
}
