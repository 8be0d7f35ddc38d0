package catalog

import (
	"math"
	"testing"

	"formprices/internal/scrapers/gravityforms"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func option(label string, price *float64) gravityforms.RawOption {
	return gravityforms.RawOption{
		Product:  label,
		Price:    price,
		RawValue: label + "|",
		Source:   `name="input_50"`,
	}
}

func labels(rows []Product) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Label
	}
	return out
}

func TestDedupe(t *testing.T) {
	first := option("A", ptr(1))
	first.Source = "first"
	second := option("A", ptr(2))
	second.Source = "second"

	out := Dedupe([]gravityforms.RawOption{first, option("B", nil), second, option("C", ptr(3))})
	require.Len(t, out, 3)
	require.Equal(t, "A", out[0].Product)
	require.Equal(t, "first", out[0].Source)
	require.Equal(t, 1.0, *out[0].Price)
	require.Equal(t, "B", out[1].Product)
	require.Equal(t, "C", out[2].Product)

	require.Empty(t, Dedupe(nil))
}

func TestEnrichOne(t *testing.T) {
	testCases := []struct {
		label         string
		price         *float64
		thc           *float64
		cbd           *float64
		weight        *float64
		pricePerGram  *float64
		pricePerMgThc *float64
	}{
		{
			label:         "Alpha Kush 20% THC (10g)",
			price:         ptr(45),
			thc:           ptr(20),
			weight:        ptr(10),
			pricePerGram:  ptr(4.5),
			pricePerMgThc: ptr(45.0 / 2000),
		},
		{
			label:        "Beta Haze 18.5% thc <1% CBD 5 g",
			price:        ptr(30),
			thc:          ptr(18.5),
			cbd:          ptr(1),
			weight:       ptr(5),
			pricePerGram: ptr(6),
			// 5000mg * 18.5%
			pricePerMgThc: ptr(30 / 925.0),
		},
		{
			label: "Gamma Oil",
			price: ptr(60),
		},
		{
			label:  "No Price Flower 22% THC (10g)",
			thc:    ptr(22),
			weight: ptr(10),
		},
		{
			label:        "Zero THC 0% THC (10g)",
			price:        ptr(10),
			thc:          ptr(0),
			weight:       ptr(10),
			pricePerGram: ptr(1),
		},
		{
			label:  "Empty Jar 20% THC (0g)",
			price:  ptr(10),
			thc:    ptr(20),
			weight: ptr(0),
		},
	}

	for _, test := range testCases {
		t.Run(test.label, func(t *testing.T) {
			p := EnrichOne(option(test.label, test.price))
			require.Equal(t, test.label, p.Label)
			require.Equal(t, test.price, p.Price)
			require.Equal(t, test.thc, p.ThcPercent)
			require.Equal(t, test.cbd, p.CbdPercent)
			require.Equal(t, test.weight, p.WeightGrams)
			requireClose(t, test.pricePerGram, p.PricePerGram)
			requireClose(t, test.pricePerMgThc, p.PricePerMgThc)
		})
	}
}

func requireClose(t *testing.T, expected, actual *float64) {
	t.Helper()
	if expected == nil {
		require.Nil(t, actual)
		return
	}
	require.NotNil(t, actual)
	require.InDelta(t, *expected, *actual, 1e-9)
}

func TestEnrichIsPure(t *testing.T) {
	options := []gravityforms.RawOption{option("Alpha 20% THC (10g)", ptr(45))}
	require.Equal(t, Enrich(options), Enrich(options))
}

func TestSelect(t *testing.T) {
	rows := Enrich([]gravityforms.RawOption{
		option("Alpha FLOWER", ptr(1)),
		option("Beta Oil", ptr(2)),
		option("Gamma Flower", ptr(3)),
	})

	require.Equal(t, []string{"Alpha FLOWER", "Gamma Flower"}, labels(Select(rows, true)))
	require.Equal(t, []string{"Alpha FLOWER", "Beta Oil", "Gamma Flower"}, labels(Select(rows, false)))
}

func TestOrder(t *testing.T) {
	rows := Enrich([]gravityforms.RawOption{
		option("no price 1", nil),
		option("twenty", ptr(20)),
		option("ten a", ptr(10)),
		option("no price 2", nil),
		option("ten b", ptr(10)),
		option("zero", ptr(0)),
	})

	ordered := Order(rows)
	require.Equal(t, []string{"zero", "ten a", "ten b", "twenty", "no price 1", "no price 2"}, labels(ordered))
	require.Equal(t, "no price 1", rows[0].Label)

	seenUnpriced := false
	last := math.Inf(-1)
	for _, r := range ordered {
		if r.Price == nil {
			seenUnpriced = true
			continue
		}
		require.False(t, seenUnpriced, "priced product after an unpriced one")
		require.GreaterOrEqual(t, *r.Price, last)
		last = *r.Price
	}
}
