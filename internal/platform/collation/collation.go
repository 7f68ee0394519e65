// Package collation orders display names the way clinic staff read them:
// Portuguese rules, ignoring case and accents.
package collation

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a fresh collator; collate.Collator is not safe for
// concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// Compare returns -1, 0 or 1.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortByName sorts items in place by the string key returns. Equal names
// keep their input order.
func SortByName[T any](items []T, key func(T) string) {
	c := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
