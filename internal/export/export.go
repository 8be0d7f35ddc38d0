package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"formprices/internal/catalog"
)

var csvHeader = []string{"product", "price", "raw_value", "source"}

// formatPrice keeps at least one decimal so whole prices read 45.0.
func formatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// EncodeCSV writes the raw option columns of every product, a missing
// price is an empty cell.
func EncodeCSV(w io.Writer, rows []catalog.Product) error {
	writer := csv.NewWriter(w)
	err := writer.Write(csvHeader)
	if err != nil {
		return err
	}
	for _, r := range rows {
		raw := r.Raw()
		price := ""
		if raw.Price != nil {
			price = formatPrice(*raw.Price)
		}
		err = writer.Write([]string{raw.Product, price, raw.RawValue, raw.Source})
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// EncodeJSON writes every field of every product as an indented array,
// non-ASCII text is kept as is.
func EncodeJSON(w io.Writer, rows []catalog.Product) error {
	if rows == nil {
		rows = []catalog.Product{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(rows)
}

func writeFile(path string, rows []catalog.Product, encode func(io.Writer, []catalog.Product) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	err = encode(f, rows)
	if err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func WriteCSV(path string, rows []catalog.Product) error {
	return writeFile(path, rows, EncodeCSV)
}

func WriteJSON(path string, rows []catalog.Product) error {
	return writeFile(path, rows, EncodeJSON)
}
