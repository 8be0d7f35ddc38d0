package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// Attr returns the value of the first attribute named key.
// Keys coming out of the tokenizer are already lowercase.
func Attr(attrs []html.Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr is Attr with a fallback.
func AttrOr(attrs []html.Attribute, key, fallback string) string {
	val, ok := Attr(attrs, key)
	if !ok {
		return fallback
	}
	return val
}

// HasClass reports whether the whitespace separated class list contains cls exactly.
func HasClass(classes, cls string) bool {
	for _, c := range strings.Fields(classes) {
		if c == cls {
			return true
		}
	}
	return false
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CleanText drops non-printable runes and collapses whitespace runs.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}
