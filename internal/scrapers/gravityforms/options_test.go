package gravityforms

import (
	_ "embed"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/form.html
var formFixture string

func ptr(v float64) *float64 {
	return &v
}

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		raw      string
		expected *float64
	}{
		{raw: "Alpha Kush|45.00", expected: ptr(45)},
		{raw: "Alpha Kush|£27.50", expected: ptr(27.5)},
		{raw: "Alpha Kush 10g|n/a", expected: ptr(10)},
		{raw: "Alpha Kush|price 12 or 13", expected: ptr(12)},
		{raw: "no pipe 8.5 here", expected: ptr(8.5)},
		{raw: "Gamma Oil|n/a", expected: nil},
		{raw: "", expected: nil},
		{raw: "a|b|3", expected: ptr(3)},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ParsePrice(test.raw), test.raw)
	}
}

func TestScanDocumentTargeted(t *testing.T) {
	options := ScanDocument(formFixture, ScanOptions{Identity: DefaultIdentity()})

	expected := []RawOption{
		{
			Product:  "Alpha Kush 20% THC (10g)",
			Price:    ptr(45),
			RawValue: "Alpha Kush 20% THC (10g)|45.00",
			Source:   `name="input_50" id="input_3_50" classes="large gfield_select"`,
		},
		{
			Product:  "Beta Haze 18% THC <1% CBD (5g)",
			Price:    ptr(27.5),
			RawValue: "Beta Haze 18% THC <1% CBD (5g)|£27.50",
			Source:   `name="input_50" id="input_3_50" classes="large gfield_select"`,
		},
		{
			Product:  "Gamma Oil",
			Price:    nil,
			RawValue: "Gamma Oil|n/a",
			Source:   `name="input_71" id="input_3_71" classes="medium gfield_select"`,
		},
	}
	if diff := cmp.Diff(expected, options); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestScanDocumentWildcard(t *testing.T) {
	options := ScanDocument(formFixture, ScanOptions{Wildcard: true})

	var products []string
	for _, o := range options {
		products = append(products, o.Product)
	}
	require.Equal(t, []string{
		"Alpha Kush 20% THC (10g)",
		"Beta Haze 18% THC <1% CBD (5g)",
		"Gamma Oil",
		"Delta Diesel 22% THC (10g)",
	}, products)
}

func TestScanDocumentIdentityById(t *testing.T) {
	document := `
	<select name="renamed" id="input_3_99" class="gfield_select">
		<option value="Only|5">Only</option>
	</select>`

	options := ScanDocument(document, ScanOptions{
		Identity: NewFieldIdentity(nil, []string{"input_3_99"}),
	})
	require.Len(t, options, 1)
	require.Equal(t, "Only", options[0].Product)
}

func TestScanDocumentEdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		expected []string
	}{
		{
			name:     "no selects",
			document: `<p>nothing to see</p>`,
			expected: nil,
		},
		{
			name: "product falls back to value label",
			document: `<select name="input_50" class="gfield_select">
				<option value="  From Value |9"></option>
			</select>`,
			expected: []string{"From Value"},
		},
		{
			name: "nested markup inside option",
			document: `<select name="input_50" class="gfield_select">
				<option value="x|1"><b>Bold</b> Name </option>
			</select>`,
			expected: []string{"Bold Name"},
		},
		{
			name: "marker class must match exactly",
			document: `<select name="input_50" class="gfield_selected">
				<option value="x|1">X</option>
			</select>`,
			expected: nil,
		},
		{
			name: "options outside a select are ignored",
			document: `<option value="x|1">X</option>
			<select name="input_50" class="gfield_select"></select>
			<option value="y|1">Y</option>`,
			expected: nil,
		},
		{
			name: "malformed markup",
			document: `<select name="input_50" class="gfield_select"><option value="a|1">A<option value="b|2">B`,
			expected: nil,
		},
		{
			name:     "unclosed options are dropped at select end",
			document: `<select name="input_50" class="gfield_select"><option value="a|1">A<option value="b|2">B</select>`,
			expected: nil,
		},
		{
			name:     "unclosed option does not leak into the next select",
			document: `<select name="input_50" class="gfield_select"><option value="a|1">A</select><select name="input_71" class="gfield_select"><option value="b|2">B</option></select>`,
			expected: []string{"B"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var products []string
			for _, o := range ScanDocument(test.document, ScanOptions{Identity: DefaultIdentity()}) {
				products = append(products, o.Product)
			}
			require.Equal(t, test.expected, products)
		})
	}
}

func TestScanDocumentCustomClasses(t *testing.T) {
	document := `<select name="input_50" class="dropdown">
		<option value="" class="prompt">Pick one</option>
		<option value="A|1">A</option>
	</select>`

	options := ScanDocument(document, ScanOptions{
		Identity:         DefaultIdentity(),
		MarkerClass:      "dropdown",
		PlaceholderClass: "prompt",
	})
	require.Len(t, options, 1)
	require.Equal(t, "A", options[0].Product)
}
