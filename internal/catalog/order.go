package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// Select keeps only the products whose label mentions "flower" when
// flowerOnly is set.
func Select(rows []Product, flowerOnly bool) []Product {
	if !flowerOnly {
		return rows
	}
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Label), "flower") {
			out = append(out, r)
		}
	}
	return out
}

func comparePrice(a, b Product) int {
	switch {
	case a.Price == nil && b.Price == nil:
		return 0
	case a.Price == nil:
		return 1
	case b.Price == nil:
		return -1
	}
	return cmp.Compare(*a.Price, *b.Price)
}

// Order sorts by ascending price with unpriced products last, ties keep
// their input order. The input is not modified.
func Order(rows []Product) []Product {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, comparePrice)
	return out
}
