package grid

import (
	"regexp"
	"strings"
)

var (
	lessThanRegex   = regexp.MustCompile(`(?i)\bless\s+than\b`)
	cbdFlowerRegex  = regexp.MustCompile(`(?i)\bCBD\s+Flower\b`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	brandRegex      = regexp.MustCompile(`^([^0-9]+?)\s+\d+%`)
)

// DisplayName shortens a label for the grid: "less than" is dropped,
// "CBD Flower" becomes "CBD" and whitespace is collapsed.
func DisplayName(label string) string {
	name := lessThanRegex.ReplaceAllString(label, "")
	name = cbdFlowerRegex.ReplaceAllString(name, "CBD")
	name = whitespaceRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Brand is the text in front of the first "<n>%" of a label.
func Brand(label string) string {
	match := brandRegex.FindStringSubmatch(label)
	if match == nil {
		return "Unknown"
	}
	brand := strings.TrimSpace(match[1])
	if brand == "" {
		return "Unknown"
	}
	return brand
}
