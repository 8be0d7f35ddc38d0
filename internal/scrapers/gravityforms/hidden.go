package gravityforms

import (
	"strings"

	"formprices/lib/htmlutil"

	"golang.org/x/net/html"
)

// HiddenFields maps the name of an <input type="hidden"> to its value.
type HiddenFields map[string]string

type hiddenFieldCollector struct {
	fields HiddenFields
}

func (c *hiddenFieldCollector) startElement(tag string, attrs []html.Attribute) {
	if tag != "input" {
		return
	}
	if !strings.EqualFold(htmlutil.AttrOr(attrs, "type", ""), "hidden") {
		return
	}
	name, ok := htmlutil.Attr(attrs, "name")
	if !ok {
		return
	}
	value, ok := htmlutil.Attr(attrs, "value")
	if !ok {
		return
	}
	c.fields[name] = value
}

func (c *hiddenFieldCollector) text(string) {}

func (c *hiddenFieldCollector) endElement(string) {}

// ExtractHiddenFields collects every hidden input that has both a name and a
// value, a repeated name keeps the last value.
func ExtractHiddenFields(document string) HiddenFields {
	c := &hiddenFieldCollector{fields: HiddenFields{}}
	walk(document, c)
	return c.fields
}
