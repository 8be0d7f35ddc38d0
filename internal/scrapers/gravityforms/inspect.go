package gravityforms

import (
	"fmt"
	"strings"

	"formprices/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Dropdown summarizes a <select> element for the inspect command.
type Dropdown struct {
	Name    string
	Id      string
	Classes string
	// Label is the text of the <label for="id"> that asks the question, if any.
	Label string
	// Marked is true when the dropdown carries the Gravity Forms marker class.
	Marked bool
	// Targeted is true when a targeted scan with the given identity would read it.
	Targeted bool
	Options  int
}

// InspectDropdowns lists every <select> of the document in document order.
// It is what you look at when a targeted scan comes back empty because the
// form's field names changed.
func InspectDropdowns(document string, identity FieldIdentity) ([]Dropdown, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	scan := ScanOptions{Identity: identity}.withDefaults()

	var out []Dropdown
	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		name := sel.AttrOr("name", "")
		id := sel.AttrOr("id", "")
		classes := sel.AttrOr("class", "")
		marked := sel.HasClass(scan.MarkerClass)

		label := ""
		if id != "" {
			doc.Find("label").EachWithBreak(func(_ int, l *goquery.Selection) bool {
				if l.AttrOr("for", "") != id {
					return true
				}
				label = htmlutil.CleanText(l.Text())
				return false
			})
		}

		out = append(out, Dropdown{
			Name:     name,
			Id:       id,
			Classes:  classes,
			Label:    label,
			Marked:   marked,
			Targeted: marked && identity.Matches(name, id),
			Options:  sel.Find("option").Length(),
		})
	})
	return out, nil
}
