// Package session caches the operator's bearer credential between CLI
// invocations and answers validity queries without touching the server.
package session

import (
	"context"
	"strconv"
	"time"

	"sysboard/internal/auth/token"
	"sysboard/internal/store"
)

const (
	tokenKey  = "auth_token"
	expiryKey = "auth_token_expiry"

	// TokenTTL bounds how long a credential stays in storage regardless of
	// its own exp claim.
	TokenTTL = 30 * 24 * time.Hour

	// ClockSkew is subtracted from the true expiry so a token is dropped
	// slightly early rather than presented slightly late.
	ClockSkew = 60 * time.Second
)

// Cache holds the single credential slot. Last write wins; there is no
// second slot to race against.
type Cache struct {
	store *store.DualStore
	now   func() time.Time
}

func NewCache(s *store.DualStore) *Cache {
	return NewCacheWithClock(s, time.Now)
}

// NewCacheWithClock injects the clock used for expiry comparison.
func NewCacheWithClock(s *store.DualStore, now func() time.Time) *Cache {
	return &Cache{store: s, now: now}
}

// SetToken persists the raw credential. The exp claim, when decodable, is
// cached locally as a numeric hint so validity checks can skip the decode.
// An undecodable token is stored anyway; every later read treats it as
// expired.
func (c *Cache) SetToken(ctx context.Context, raw string) {
	c.store.Set(ctx, tokenKey, raw, TokenTTL)

	exp, err := token.Expiry(raw)
	if err != nil {
		c.store.DeleteLocal(ctx, expiryKey)
		return
	}
	c.store.SetLocal(ctx, expiryKey, strconv.FormatInt(exp.Unix(), 10))
}

// Token returns the stored credential if it is still valid. An expired or
// undecodable credential is removed from storage and reported absent.
func (c *Cache) Token(ctx context.Context) (string, bool) {
	raw, ok := c.store.Get(ctx, tokenKey)
	if !ok {
		return "", false
	}
	if c.expired(ctx, raw) {
		c.RemoveToken(ctx)
		return "", false
	}
	return raw, true
}

// RemoveToken drops the credential and its expiry hint. Safe to call when
// nothing is stored.
func (c *Cache) RemoveToken(ctx context.Context) {
	c.store.Remove(ctx, tokenKey)
	c.store.DeleteLocal(ctx, expiryKey)
}

// IsAuthenticated is the guard consumers call before each protected action.
func (c *Cache) IsAuthenticated(ctx context.Context) bool {
	_, ok := c.Token(ctx)
	return ok
}

// expired checks the cached hint first, falling back to a full decode.
// A token with no readable expiry is expired, never permanently valid.
func (c *Cache) expired(ctx context.Context, raw string) bool {
	var exp time.Time

	if hint, ok := c.store.GetLocal(ctx, expiryKey); ok {
		if sec, err := strconv.ParseInt(hint, 10, 64); err == nil {
			exp = time.Unix(sec, 0)
		}
	}
	if exp.IsZero() {
		decoded, err := token.Expiry(raw)
		if err != nil {
			return true
		}
		exp = decoded
	}

	return !c.now().Add(ClockSkew).Before(exp)
}
