package prefs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysboard/internal/prefs"
	"sysboard/internal/store"
)

func newRegistry(zone string) (*prefs.Registry, *store.DualStore) {
	ds := store.NewDualStore(store.NewMemoryBackend(), store.NewMemoryBackend(), nil)
	r := prefs.NewRegistryWithZone(ds, func() string { return zone })
	return r, ds
}

func TestNetworkUnitDefaultsOnInvalid(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry("UTC")

	assert.Equal(t, "MB/s", r.NetworkUnit(ctx))

	r.SetNetworkUnit(ctx, "xyz")
	assert.Equal(t, "MB/s", r.NetworkUnit(ctx))

	r.SetNetworkUnit(ctx, "")
	assert.Equal(t, "MB/s", r.NetworkUnit(ctx))

	r.SetNetworkUnit(ctx, "Mbps")
	assert.Equal(t, "Mbps", r.NetworkUnit(ctx))
}

func TestTimezoneFallsBackToEnvironment(t *testing.T) {
	ctx := context.Background()
	r, ds := newRegistry("Europe/Berlin")

	assert.Equal(t, "Europe/Berlin", r.Timezone(ctx))

	// Introspection does not persist: the store stays empty and a second
	// fresh read asks the environment again.
	_, ok := ds.Get(ctx, "history_timezone")
	assert.False(t, ok)

	r2 := prefs.NewRegistryWithZone(ds, func() string { return "Asia/Tokyo" })
	assert.Equal(t, "Asia/Tokyo", r2.Timezone(ctx))
}

func TestTimezoneStoredWins(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry("Europe/Berlin")

	require.NoError(t, r.SetTimezone(ctx, "America/New_York"))
	assert.Equal(t, "America/New_York", r.Timezone(ctx))
}

func TestSetTimezoneRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	r, _ := newRegistry("UTC")

	assert.ErrorIs(t, r.SetTimezone(ctx, ""), prefs.ErrEmptyValue)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	r, ds := newRegistry("Europe/Berlin")

	require.NoError(t, r.SetTimezone(ctx, "America/New_York"))
	r.SetNetworkUnit(ctx, "Mbps")

	r.ClearAll(ctx)

	assert.Equal(t, "Europe/Berlin", r.Timezone(ctx))
	assert.Equal(t, "MB/s", r.NetworkUnit(ctx))
	_, ok := ds.Get(ctx, "network_unit")
	assert.False(t, ok)
}
