package gravityforms

import (
	"strings"

	"golang.org/x/net/html"
)

// elementHandler receives the token stream of a document. Tag names and
// attribute keys arrive lowercased and text arrives with entities decoded.
type elementHandler interface {
	startElement(tag string, attrs []html.Attribute)
	text(data string)
	endElement(tag string)
}

// walk feeds document to h in a single pass. Malformed markup never fails,
// the tokenizer recovers what it can and the walk stops at the first error
// token (normally io.EOF).
func walk(document string, h elementHandler) {
	z := html.NewTokenizer(strings.NewReader(document))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.StartTagToken:
			tok := z.Token()
			h.startElement(tok.Data, tok.Attr)
		case html.SelfClosingTagToken:
			tok := z.Token()
			h.startElement(tok.Data, tok.Attr)
			h.endElement(tok.Data)
		case html.EndTagToken:
			tok := z.Token()
			h.endElement(tok.Data)
		case html.TextToken:
			h.text(z.Token().Data)
		}
	}
}
