package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestAttr(t *testing.T) {
	attrs := []html.Attribute{{Key: "name", Val: "input_50"}, {Key: "value", Val: ""}}

	val, ok := Attr(attrs, "value")
	require.True(t, ok)
	require.Equal(t, "", val)

	_, ok = Attr(attrs, "id")
	require.False(t, ok)
	require.Equal(t, "none", AttrOr(attrs, "id", "none"))
	require.Equal(t, "input_50", AttrOr(attrs, "name", "none"))
}

func TestHasClass(t *testing.T) {
	require.True(t, HasClass("large  gfield_select\tx", "gfield_select"))
	require.False(t, HasClass("gfield_select_wide", "gfield_select"))
	require.False(t, HasClass("", "gfield_select"))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Which product would you like?", CleanText("  Which product\n\t   would you like?\x00 "))
	require.Equal(t, "a b", CleanText("a b"))
}
