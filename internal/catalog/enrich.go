package catalog

import (
	"regexp"
	"strconv"

	"formprices/internal/scrapers/gravityforms"
)

var (
	thcRegex    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%\s*THC`)
	cbdRegex    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)%\s*CBD`)
	weightRegex = regexp.MustCompile(`(?i)\(?(\d+(?:\.\d+)?)\s*g\)?`)
)

func firstMatch(re *regexp.Regexp, label string) *float64 {
	match := re.FindStringSubmatch(label)
	if match == nil {
		return nil
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}
	return &value
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

// EnrichOne mines THC%, CBD% and weight out of the label and derives the
// per gram and per milligram of THC prices from them.
func EnrichOne(option gravityforms.RawOption) Product {
	p := Product{
		Label:       option.Product,
		Price:       option.Price,
		RawValue:    option.RawValue,
		Source:      option.Source,
		ThcPercent:  firstMatch(thcRegex, option.Product),
		CbdPercent:  firstMatch(cbdRegex, option.Product),
		WeightGrams: firstMatch(weightRegex, option.Product),
	}

	if p.Price != nil && positive(p.WeightGrams) {
		perGram := *p.Price / *p.WeightGrams
		p.PricePerGram = &perGram
	}
	if p.Price != nil && positive(p.WeightGrams) && positive(p.ThcPercent) {
		thcMg := *p.WeightGrams * 1000 * *p.ThcPercent / 100
		perMg := *p.Price / thcMg
		p.PricePerMgThc = &perMg
	}
	return p
}

func Enrich(options []gravityforms.RawOption) []Product {
	out := make([]Product, len(options))
	for i, o := range options {
		out[i] = EnrichOne(o)
	}
	return out
}
