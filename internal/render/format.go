package render

import (
	"fmt"
	"regexp"
)

const NotAvailable = "N/A"

// Money formats a price in pounds, missing prices become N/A.
func Money(v *float64, decimals int) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("£%.*f", decimals, *v)
}

// Number is Money without the currency sign.
func Number(v *float64, decimals int, suffix string) string {
	if v == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%.*f%s", decimals, *v, suffix)
}

// Truncate cuts s to at most max runes, ending in "..." when something was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

var sizeRegex = regexp.MustCompile(`\((\d+g)\)`)

// Size is the parenthesized pack size in a label, ex. "(10g)" -> "10g".
func Size(label string) string {
	match := sizeRegex.FindStringSubmatch(label)
	if match == nil {
		return NotAvailable
	}
	return match[1]
}
