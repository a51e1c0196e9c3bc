package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysboard/internal/auth/token"
	"sysboard/internal/session"
	"sysboard/internal/store"
)

var secret = []byte("test-secret")

func newCache(t *testing.T, now time.Time) (*session.Cache, *store.DualStore, *store.MemoryBackend, *store.MemoryBackend) {
	t.Helper()
	primary := store.NewMemoryBackend()
	mirror := store.NewMemoryBackend()
	ds := store.NewDualStore(primary, mirror, nil)
	c := session.NewCacheWithClock(ds, func() time.Time { return now })
	return c, ds, primary, mirror
}

func issue(t *testing.T, ttl time.Duration, now time.Time) string {
	t.Helper()
	raw, err := token.Issue(secret, "op-1", ttl, now)
	require.NoError(t, err)
	return raw
}

func TestRoundTripValidToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, _, _, _ := newCache(t, now)

	raw := issue(t, time.Hour, now)
	c.SetToken(ctx, raw)

	got, ok := c.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, raw, got)
	assert.True(t, c.IsAuthenticated(ctx))
}

func TestExpiredTokenClearedOnRead(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, ds, _, _ := newCache(t, now)

	c.SetToken(ctx, issue(t, time.Hour, now.Add(-2*time.Hour)))

	_, ok := c.Token(ctx)
	assert.False(t, ok)

	// Expiry check cleared storage; a second read misses outright.
	_, ok = ds.Get(ctx, "auth_token")
	assert.False(t, ok)
	_, ok = c.Token(ctx)
	assert.False(t, ok)
}

func TestSkewBufferTreatsNearExpiryAsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, _, _, _ := newCache(t, now)

	// Expires in 30s, inside the 60s skew buffer.
	c.SetToken(ctx, issue(t, 30*time.Second, now))
	assert.False(t, c.IsAuthenticated(ctx))

	// Just outside the buffer stays valid.
	c.SetToken(ctx, issue(t, 90*time.Second, now))
	assert.True(t, c.IsAuthenticated(ctx))
}

func TestMalformedTokenStoredButNeverValid(t *testing.T) {
	ctx := context.Background()
	c, _, primary, _ := newCache(t, time.Now())

	c.SetToken(ctx, "not.a.jwt")

	// The raw value is persisted...
	v, ok, err := primary.Get(ctx, "sysboard:auth_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not.a.jwt", v)

	// ...but fails closed on every validity check.
	assert.False(t, c.IsAuthenticated(ctx))
}

func TestExpiryHintCachedLocally(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, ds, primary, _ := newCache(t, now)

	c.SetToken(ctx, issue(t, time.Hour, now))

	hint, ok := ds.GetLocal(ctx, "auth_token_expiry")
	require.True(t, ok)
	assert.NotEmpty(t, hint)

	// The hint never lands on the network-visible backend.
	_, ok, err := primary.Get(ctx, "sysboard:auth_token_expiry")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveTokenIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, ds, _, _ := newCache(t, now)

	c.SetToken(ctx, issue(t, time.Hour, now))
	c.RemoveToken(ctx)
	c.RemoveToken(ctx)

	assert.False(t, c.IsAuthenticated(ctx))
	_, ok := ds.GetLocal(ctx, "auth_token_expiry")
	assert.False(t, ok)
}

func TestSetTokenReplacesStaleHint(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c, ds, _, _ := newCache(t, now)

	c.SetToken(ctx, issue(t, time.Hour, now))
	// A malformed replacement must not leave the old hint behind.
	c.SetToken(ctx, "garbage")

	_, ok := ds.GetLocal(ctx, "auth_token_expiry")
	assert.False(t, ok)
	assert.False(t, c.IsAuthenticated(ctx))
}
