package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"formprices/internal/catalog"
	"formprices/internal/scrapers/gravityforms"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func sampleRows() []catalog.Product {
	return catalog.Enrich([]gravityforms.RawOption{
		{
			Product:  "Alpha Kush 20% THC (10g)",
			Price:    ptr(45.5),
			RawValue: "Alpha Kush 20% THC (10g)|£45.50",
			Source:   `name="input_50" id="input_3_50" classes="gfield_select"`,
		},
		{
			Product:  "Gamma, Oil",
			RawValue: "Gamma, Oil|n/a",
			Source:   `name="input_71"`,
		},
	})
}

func TestEncodeCSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, EncodeCSV(&out, sampleRows()))

	expected := "product,price,raw_value,source\n" +
		"Alpha Kush 20% THC (10g),45.5,Alpha Kush 20% THC (10g)|£45.50,\"name=\"\"input_50\"\" id=\"\"input_3_50\"\" classes=\"\"gfield_select\"\"\"\n" +
		"\"Gamma, Oil\",,\"Gamma, Oil|n/a\",\"name=\"\"input_71\"\"\"\n"
	require.Equal(t, expected, out.String())
}

func TestEncodeJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, EncodeJSON(&out, sampleRows()))

	require.Contains(t, out.String(), "\n  {\n    \"product\": \"Alpha Kush 20% THC (10g)\"")
	require.Contains(t, out.String(), "£45.50")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, 45.5, decoded[0]["price"])
	require.Equal(t, 20.0, decoded[0]["thc_percent"])
	require.Equal(t, 10.0, decoded[0]["weight_grams"])
	require.Equal(t, 4.55, decoded[0]["price_per_gram"])
	require.Contains(t, decoded[0], "cbd_percent")
	require.Nil(t, decoded[0]["cbd_percent"])
	require.Nil(t, decoded[1]["price"])
}

func TestEncodeJSONEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, EncodeJSON(&out, nil))
	require.Equal(t, "[]\n", out.String())
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	jsonPath := filepath.Join(dir, "out.json")

	require.NoError(t, WriteCSV(csvPath, sampleRows()))
	require.NoError(t, WriteJSON(jsonPath, sampleRows()))

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "product,price,raw_value,source")

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "\"raw_value\"")

	require.Error(t, WriteCSV(filepath.Join(dir, "missing", "out.csv"), sampleRows()))
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "45.0", formatPrice(45))
	require.Equal(t, "27.5", formatPrice(27.5))
	require.Equal(t, "0.0", formatPrice(0))
	require.Equal(t, "12.345", formatPrice(12.345))
}
