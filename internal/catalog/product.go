package catalog

import "formprices/internal/scrapers/gravityforms"

// Product is an option enriched with what could be mined out of its label.
// Every pointer field is nil when the value is unknown.
type Product struct {
	Label    string   `json:"product"`
	Price    *float64 `json:"price"`
	RawValue string   `json:"raw_value"`
	Source   string   `json:"source"`

	ThcPercent    *float64 `json:"thc_percent"`
	CbdPercent    *float64 `json:"cbd_percent"`
	WeightGrams   *float64 `json:"weight_grams"`
	PricePerGram  *float64 `json:"price_per_gram"`
	PricePerMgThc *float64 `json:"price_per_mg_thc"`
}

// Raw returns the option the product was enriched from.
func (p Product) Raw() gravityforms.RawOption {
	return gravityforms.RawOption{
		Product:  p.Label,
		Price:    p.Price,
		RawValue: p.RawValue,
		Source:   p.Source,
	}
}
