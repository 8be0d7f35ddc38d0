package gravityforms

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"formprices/lib/htmlutil"

	"golang.org/x/net/html"
)

const (
	// DefaultMarkerClass is the class Gravity Forms puts on its <select> fields.
	DefaultMarkerClass = "gfield_select"
	// DefaultPlaceholderClass marks the "Choose an option" prompt.
	DefaultPlaceholderClass = "gf_placeholder"
)

// RawOption is one selectable option as it was found in the document.
type RawOption struct {
	Product string
	// Price is nil when no number could be parsed out of RawValue.
	Price    *float64
	RawValue string
	// Source describes the owning dropdown, ex. `name="input_50" id="input_3_50" classes="..."`.
	Source string
}

// FieldIdentity is the set of dropdowns a targeted scan looks at, a dropdown
// matches when either its name or its id is in the set.
type FieldIdentity struct {
	Names map[string]struct{}
	Ids   map[string]struct{}
}

func NewFieldIdentity(names, ids []string) FieldIdentity {
	identity := FieldIdentity{
		Names: make(map[string]struct{}, len(names)),
		Ids:   make(map[string]struct{}, len(ids)),
	}
	for _, n := range names {
		identity.Names[n] = struct{}{}
	}
	for _, id := range ids {
		identity.Ids[id] = struct{}{}
	}
	return identity
}

func (f FieldIdentity) Matches(name, id string) bool {
	_, nameOk := f.Names[name]
	_, idOk := f.Ids[id]
	return nameOk || idOk
}

// DefaultIdentity targets the product dropdowns of the repeat prescription
// form (form 3).
func DefaultIdentity() FieldIdentity {
	suffixes := []string{"50", "71", "72", "73", "74", "79", "81", "82"}
	names := make([]string, len(suffixes))
	ids := make([]string, len(suffixes))
	for i, s := range suffixes {
		names[i] = "input_" + s
		ids[i] = "input_3_" + s
	}
	return NewFieldIdentity(names, ids)
}

// ScanOptions configures ScanDocument, empty class names fall back to the
// Gravity Forms defaults.
type ScanOptions struct {
	Identity FieldIdentity
	// Wildcard scans every dropdown carrying the marker class regardless of identity.
	Wildcard         bool
	MarkerClass      string
	PlaceholderClass string
}

func (o ScanOptions) withDefaults() ScanOptions {
	if o.MarkerClass == "" {
		o.MarkerClass = DefaultMarkerClass
	}
	if o.PlaceholderClass == "" {
		o.PlaceholderClass = DefaultPlaceholderClass
	}
	return o
}

// selects reports whether a dropdown with the given attributes is in scope.
func (o ScanOptions) selects(name, id, classes string) bool {
	if !htmlutil.HasClass(classes, o.MarkerClass) {
		return false
	}
	return o.Wildcard || o.Identity.Matches(name, id)
}

var priceRegex = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)

func firstNumber(s string) (*float64, bool) {
	match := priceRegex.FindString(s)
	if match == "" {
		return nil, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil, true
	}
	return &value, true
}

// ParsePrice reads the price out of an encoded option value. For
// "<label>|<price text>" only the text after the first "|" is searched, the
// whole value is the fallback when that yields nothing or there is no "|".
func ParsePrice(raw string) *float64 {
	if _, after, ok := strings.Cut(raw, "|"); ok {
		price, matched := firstNumber(after)
		if matched {
			return price
		}
	}
	price, _ := firstNumber(raw)
	return price
}

type optionState struct {
	open        bool
	value       string
	placeholder bool
	text        []string
}

// optionScanner is the Idle -> InTargetSelect -> InOption state machine.
type optionScanner struct {
	opts ScanOptions

	inTargetSelect bool
	source         string
	option         optionState

	results []RawOption
}

func (s *optionScanner) startElement(tag string, attrs []html.Attribute) {
	switch {
	case tag == "select":
		name := htmlutil.AttrOr(attrs, "name", "")
		id := htmlutil.AttrOr(attrs, "id", "")
		classes := htmlutil.AttrOr(attrs, "class", "")

		s.inTargetSelect = s.opts.selects(name, id, classes)
		if s.inTargetSelect {
			s.source = fmt.Sprintf(`name="%s" id="%s" classes="%s"`, name, id, classes)
		}
	case tag == "option" && s.inTargetSelect:
		s.option = optionState{
			open:        true,
			value:       strings.TrimSpace(htmlutil.AttrOr(attrs, "value", "")),
			placeholder: htmlutil.HasClass(htmlutil.AttrOr(attrs, "class", ""), s.opts.PlaceholderClass),
		}
	}
}

func (s *optionScanner) text(data string) {
	if s.inTargetSelect && s.option.open {
		s.option.text = append(s.option.text, data)
	}
}

func (s *optionScanner) endElement(tag string) {
	switch {
	case tag == "option" && s.inTargetSelect && s.option.open:
		s.emit()
		s.option = optionState{}
	case tag == "select":
		s.inTargetSelect = false
		s.source = ""
		s.option = optionState{}
	}
}

func (s *optionScanner) emit() {
	parts := make([]string, len(s.option.text))
	for i, p := range s.option.text {
		parts[i] = strings.TrimSpace(p)
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	raw := s.option.value

	if s.option.placeholder || (text == "" && raw == "") {
		return
	}

	product := text
	if product == "" {
		before, _, _ := strings.Cut(raw, "|")
		product = strings.TrimSpace(before)
	}
	if product == "" {
		return
	}

	s.results = append(s.results, RawOption{
		Product:  product,
		Price:    ParsePrice(raw),
		RawValue: raw,
		Source:   s.source,
	})
}

// ScanDocument returns the options of every dropdown in scope, in document order.
func ScanDocument(document string, opts ScanOptions) []RawOption {
	s := &optionScanner{opts: opts.withDefaults()}
	walk(document, s)
	return s.results
}
