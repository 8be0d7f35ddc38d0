package catalog

import "formprices/internal/scrapers/gravityforms"

// Dedupe keeps the first option seen for every label, later duplicates are
// dropped along with their price and source.
func Dedupe(options []gravityforms.RawOption) []gravityforms.RawOption {
	seen := make(map[string]struct{}, len(options))
	out := make([]gravityforms.RawOption, 0, len(options))
	for _, o := range options {
		if _, ok := seen[o.Product]; ok {
			continue
		}
		seen[o.Product] = struct{}{}
		out = append(out, o)
	}
	return out
}
