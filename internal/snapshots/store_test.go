package snapshots

import (
	"context"
	"testing"
	"time"

	"formprices/internal/catalog"
	"formprices/internal/components/chrono"
	"formprices/internal/components/telemetry"
	"formprices/internal/scrapers/gravityforms"
	configlibsql "formprices/lib/configutil/libsql"

	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func products(prices map[string]*float64, order ...string) []catalog.Product {
	options := make([]gravityforms.RawOption, len(order))
	for i, label := range order {
		options[i] = gravityforms.RawOption{Product: label, Price: prices[label]}
	}
	return catalog.Enrich(options)
}

func openStore(t *testing.T) Store {
	store, err := Open(configlibsql.Struct{File: ":memory:"}, telemetry.NewRecorder())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestStore(t *testing.T) {
	store := openStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	{
		res, err := store.Pull(ctx, "kush")
		require.NoError(t, err)
		require.Len(t, res, 0)
	}

	london := chrono.London()
	dayOneMorning := time.Date(2024, 3, 1, 9, 0, 0, 0, london)
	dayOneEvening := time.Date(2024, 3, 1, 21, 0, 0, 0, london)
	dayTwo := time.Date(2024, 3, 2, 9, 0, 0, 0, london)

	require.NoError(t, store.Push(ctx, dayOneMorning, products(map[string]*float64{
		"Alpha Kush 20% THC (10g)": ptr(45),
		"Beta Haze 18% THC (10g)":  ptr(50),
	}, "Alpha Kush 20% THC (10g)", "Beta Haze 18% THC (10g)")))

	// replaces the morning snapshot of Alpha, Beta is untouched
	require.NoError(t, store.Push(ctx, dayOneEvening, products(map[string]*float64{
		"Alpha Kush 20% THC (10g)": ptr(40),
	}, "Alpha Kush 20% THC (10g)")))

	require.NoError(t, store.Push(ctx, dayTwo, products(map[string]*float64{
		"Alpha Kush 20% THC (10g)": nil,
	}, "Alpha Kush 20% THC (10g)")))

	{
		res, err := store.Pull(ctx, "KUSH")
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Equal(t, "Alpha Kush 20% THC (10g)", res[0].Label)

		points := res[0].Points
		require.Len(t, points, 2)
		require.True(t, points[0].Time.Equal(dayOneEvening))
		require.Equal(t, 40.0, *points[0].Price)
		require.Equal(t, 4.0, *points[0].PricePerGram)
		require.InDelta(t, 0.02, *points[0].PricePerMgThc, 1e-9)
		require.True(t, points[1].Time.Equal(dayTwo))
		require.Nil(t, points[1].Price)
		require.Nil(t, points[1].PricePerGram)
	}
	{
		res, err := store.Pull(ctx, "")
		require.NoError(t, err)
		require.Len(t, res, 2)
		require.Equal(t, "Beta Haze 18% THC (10g)", res[1].Label)
		require.Len(t, res[1].Points, 1)
		require.Equal(t, 50.0, *res[1].Points[0].Price)
	}
}

func TestStorePushEmpty(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Push(context.Background(), time.Now(), nil))

	res, err := store.Pull(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestOpenTwice(t *testing.T) {
	config := configlibsql.Struct{File: t.TempDir() + "/prices.db"}

	first, err := Open(config, telemetry.NewRecorder())
	require.NoError(t, err)
	require.NoError(t, first.Push(context.Background(), time.Now(), products(map[string]*float64{"A": ptr(1)}, "A")))
	require.NoError(t, first.Close())

	second, err := Open(config, telemetry.NewRecorder())
	require.NoError(t, err)
	defer second.Close()

	res, err := second.Pull(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, res, 1)
}
