package grid

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"formprices/internal/render"

	"github.com/stretchr/testify/require"
)

func newSession(input string) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSession(New(sampleRows()), strings.NewReader(input), &out, render.Capabilities{}), &out
}

func TestSessionRun(t *testing.T) {
	session, out := newSession("add 1\nadd mystery\nadd Alpha Kush Flower 20% THC (10g)\ncart\nquit\nlist\n")
	require.NoError(t, session.Run(context.Background()))

	rendered := out.String()
	require.Contains(t, rendered, "Products (Showing 4 of 4)")
	require.Contains(t, rendered, "1. 2x Alpha Kush Flower 20% THC (10g) - £90.00")
	require.Contains(t, rendered, "2. 1x Mystery Flower - Price N/A")
	require.Contains(t, rendered, "Cart: 3 items - £90.00")
	// quit ends the session before the second list
	require.Equal(t, 1, strings.Count(rendered, "Products (Showing"))
}

func TestSessionEOF(t *testing.T) {
	session, _ := newSession("list\n")
	require.NoError(t, session.Run(context.Background()))
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session, _ := newSession("list\n")
	require.ErrorIs(t, session.Run(ctx), context.Canceled)
}

func TestSessionFilter(t *testing.T) {
	session, out := newSession("")

	require.NoError(t, session.Execute("filter price 40 50"))
	require.Contains(t, out.String(), "Products (Showing 2 of 4)")

	require.Error(t, session.Execute("filter price 50"))
	require.Error(t, session.Execute("filter cbd 1 2"))
	require.Error(t, session.Execute("filter price x 2"))

	out.Reset()
	require.NoError(t, session.Execute("reset"))
	require.Contains(t, out.String(), "Products (Showing 4 of 4)")
}

func TestSessionListColumns(t *testing.T) {
	session, out := newSession("")
	require.NoError(t, session.Execute("list"))

	rendered := out.String()
	require.Contains(t, rendered, "Gamma CBD 5% THC 15% CBD (5g)")
	require.Contains(t, rendered, "15.0%")
	require.Contains(t, rendered, "<1%")
	require.Contains(t, rendered, "Alpha Kush Flower")
	require.Contains(t, rendered, "Unknown")
	require.Contains(t, rendered, "0.0225")
}

func TestSessionResolve(t *testing.T) {
	session, _ := newSession("")

	label, err := session.Resolve("2")
	require.NoError(t, err)
	require.Equal(t, "Beta Haze Flower 25% THC less than 1% CBD (10g)", label)

	label, err = session.Resolve("gamma")
	require.NoError(t, err)
	require.Equal(t, "Gamma CBD Flower 5% THC 15% CBD (5g)", label)

	label, err = session.Resolve("Alpha Kush Flowr 20% THC")
	require.NoError(t, err)
	require.Equal(t, "Alpha Kush Flower 20% THC (10g)", label)

	_, err = session.Resolve("9")
	require.Error(t, err)
	_, err = session.Resolve("zzzzqqqq")
	require.Error(t, err)
	_, err = session.Resolve("")
	require.Error(t, err)
}

func TestSessionRemoveAndClear(t *testing.T) {
	session, out := newSession("")
	require.NoError(t, session.Execute("add 1"))
	require.NoError(t, session.Execute("add 2"))

	out.Reset()
	require.NoError(t, session.Execute("remove 1"))
	require.Contains(t, out.String(), "1. 1x Beta Haze")
	require.Error(t, session.Execute("remove 7"))
	require.Error(t, session.Execute("remove"))

	out.Reset()
	require.NoError(t, session.Execute("clear"))
	require.Contains(t, out.String(), "Cart: 0 items - £0.00")
}

func TestSessionUnknownCommand(t *testing.T) {
	session, _ := newSession("")
	require.Error(t, session.Execute("dance"))
	require.NoError(t, session.Execute("   "))
	require.NoError(t, session.Execute("help"))
}
