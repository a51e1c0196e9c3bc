package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysboard/internal/store"
)

// faultyBackend fails every operation, simulating a disabled or
// quota-exceeded store.
type faultyBackend struct{}

var errFaulty = errors.New("backend unavailable")

func (faultyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errFaulty
}

func (faultyBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return errFaulty
}

func (faultyBackend) Delete(ctx context.Context, key string) error {
	return errFaulty
}

func TestSetWritesBothBackends(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	ds.Set(ctx, "token", "abc", time.Hour)

	v, ok, err := primary.Get(ctx, "sysboard:token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	v, ok, err = mirror.Get(ctx, "sysboard:token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestGetRepairsMirrorFromPrimary(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	require.NoError(t, primary.Set(ctx, "sysboard:unit", "Mbps", time.Hour))

	v, ok := ds.Get(ctx, "unit")
	require.True(t, ok)
	assert.Equal(t, "Mbps", v)

	// Mirror was drifted and must now match.
	mv, mok, err := mirror.Get(ctx, "sysboard:unit")
	require.NoError(t, err)
	require.True(t, mok)
	assert.Equal(t, "Mbps", mv)
}

func TestGetRestoresPrimaryFromMirror(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	require.NoError(t, mirror.Set(ctx, "sysboard:unit", "MB/s", 0))

	v, ok := ds.Get(ctx, "unit")
	require.True(t, ok)
	assert.Equal(t, "MB/s", v)

	pv, pok, err := primary.Get(ctx, "sysboard:unit")
	require.NoError(t, err)
	require.True(t, pok)
	assert.Equal(t, "MB/s", pv)
}

func TestGetFallsBackToLegacyKey(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	// Old layout: bare key in the mirror only.
	require.NoError(t, mirror.Set(ctx, "history_timezone", "Asia/Tokyo", 0))

	v, ok := ds.Get(ctx, "history_timezone")
	require.True(t, ok)
	assert.Equal(t, "Asia/Tokyo", v)

	// Both prefixed slots are repaired from the legacy entry.
	pv, pok, _ := primary.Get(ctx, "sysboard:history_timezone")
	require.True(t, pok)
	assert.Equal(t, "Asia/Tokyo", pv)
	mv, mok, _ := mirror.Get(ctx, "sysboard:history_timezone")
	require.True(t, mok)
	assert.Equal(t, "Asia/Tokyo", mv)
}

func TestPrimaryFailureDoesNotBlockMirror(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(faultyBackend{}, mirror, nil)

	ds.Set(ctx, "token", "abc", time.Hour)

	v, ok := ds.Get(ctx, "token")
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestNoBackendsIsNoOp(t *testing.T) {
	ctx := context.Background()
	ds := store.NewDualStore(nil, nil, nil)

	ds.Set(ctx, "token", "abc", time.Hour)
	_, ok := ds.Get(ctx, "token")
	assert.False(t, ok)

	ds.Remove(ctx, "token")
	assert.False(t, ds.Available(ctx))
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	ds.Set(ctx, "token", "abc", time.Hour)
	ds.Remove(ctx, "token")
	ds.Remove(ctx, "token")

	_, ok := ds.Get(ctx, "token")
	assert.False(t, ok)
	assert.Equal(t, 0, primary.Len())
}

func TestRemoveClearsLegacyKey(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(store.NewMemoryBackend(), mirror, nil)

	require.NoError(t, mirror.Set(ctx, "network_unit", "Mbps", 0))
	ds.Remove(ctx, "network_unit")

	_, ok := ds.Get(ctx, "network_unit")
	assert.False(t, ok)
}

func TestAvailable(t *testing.T) {
	ctx := context.Background()

	ds := store.NewDualStore(store.NewMemoryBackend(), nil, nil)
	assert.True(t, ds.Available(ctx))

	ds = store.NewDualStore(faultyBackend{}, nil, nil)
	assert.False(t, ds.Available(ctx))
}

func TestLocalEntriesStayOffPrimary(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)

	ds.SetLocal(ctx, "auth_token_expiry", "1700000000")

	v, ok := ds.GetLocal(ctx, "auth_token_expiry")
	require.True(t, ok)
	assert.Equal(t, "1700000000", v)
	assert.Equal(t, 0, primary.Len())

	ds.DeleteLocal(ctx, "auth_token_expiry")
	_, ok = ds.GetLocal(ctx, "auth_token_expiry")
	assert.False(t, ok)
}
