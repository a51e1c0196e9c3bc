// Package store provides the dual-backend key/value layer the CLI keeps its
// session and preferences in. Writes go through to both backends; reads fall
// back in a fixed order and repair whichever backend is behind.
package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sysboard/internal/utils"
)

// Backend is a synchronous key/value capability. TTL is advisory:
// backends without native expiry ignore it.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DefaultTTL is applied when a value is restored into the primary and the
// original TTL is no longer known (the mirror carries no expiry metadata).
const DefaultTTL = 30 * 24 * time.Hour

const keyPrefix = "sysboard:"

// DualStore writes every value to a TTL-capable primary backend and a
// local mirror. Either backend may be nil or failing; no backend error
// ever reaches the caller.
type DualStore struct {
	primary Backend // network-visible, native expiry
	mirror  Backend // local-only durability backstop
	logger  *zap.Logger
}

func NewDualStore(primary, mirror Backend, logger *zap.Logger) *DualStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DualStore{
		primary: primary,
		mirror:  mirror,
		logger:  logger,
	}
}

// Set writes the value to both backends. A primary failure does not stop
// the mirror write; with no backends at all the call is a no-op.
func (d *DualStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	pk := keyPrefix + key
	if d.primary != nil {
		if err := d.primary.Set(ctx, pk, value, ttl); err != nil {
			d.logger.Debug("primary write failed", zap.String("key", key), zap.Error(err))
		}
	}
	if d.mirror != nil {
		if err := d.mirror.Set(ctx, pk, value, 0); err != nil {
			d.logger.Debug("mirror write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Get probes, in order: the primary, the mirror, and the legacy unprefixed
// mirror key. Every hit resyncs the backend that missed; a failed resync is
// logged and the value returned regardless.
func (d *DualStore) Get(ctx context.Context, key string) (string, bool) {
	pk := keyPrefix + key

	if d.primary != nil {
		v, ok, err := d.primary.Get(ctx, pk)
		if err != nil {
			d.logger.Debug("primary read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			d.repairMirror(ctx, pk, v)
			return v, true
		}
	}

	if d.mirror != nil {
		v, ok, err := d.mirror.Get(ctx, pk)
		if err != nil {
			d.logger.Debug("mirror read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			d.repairPrimary(ctx, pk, v)
			return v, true
		}

		// Legacy layout stored the bare key in the mirror.
		v, ok, err = d.mirror.Get(ctx, key)
		if err == nil && ok {
			d.repairPrimary(ctx, pk, v)
			d.repairMirror(ctx, pk, v)
			return v, true
		}
	}

	return "", false
}

// Remove deletes the key from both backends and the legacy mirror slot.
// Absent keys are not an error.
func (d *DualStore) Remove(ctx context.Context, key string) {
	pk := keyPrefix + key
	if d.primary != nil {
		if err := d.primary.Delete(ctx, pk); err != nil {
			d.logger.Debug("primary delete failed", zap.String("key", key), zap.Error(err))
		}
	}
	if d.mirror != nil {
		if err := d.mirror.Delete(ctx, pk); err != nil {
			d.logger.Debug("mirror delete failed", zap.String("key", key), zap.Error(err))
		}
		if err := d.mirror.Delete(ctx, key); err != nil {
			d.logger.Debug("legacy delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Available reports whether the primary actually persists a round-tripped
// value. Diagnostic only; not used on the read or write path.
func (d *DualStore) Available(ctx context.Context) bool {
	if d.primary == nil {
		return false
	}
	probe := keyPrefix + "probe:" + utils.RandomString(8)
	if err := d.primary.Set(ctx, probe, "1", time.Minute); err != nil {
		return false
	}
	v, ok, err := d.primary.Get(ctx, probe)
	_ = d.primary.Delete(ctx, probe)
	return err == nil && ok && v == "1"
}

// SetLocal writes a mirror-only entry. Derived caches (the session expiry
// hint) live here and are never pushed to the primary.
func (d *DualStore) SetLocal(ctx context.Context, key, value string) {
	if d.mirror == nil {
		return
	}
	if err := d.mirror.Set(ctx, keyPrefix+key, value, 0); err != nil {
		d.logger.Debug("mirror write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetLocal reads a mirror-only entry.
func (d *DualStore) GetLocal(ctx context.Context, key string) (string, bool) {
	if d.mirror == nil {
		return "", false
	}
	v, ok, err := d.mirror.Get(ctx, keyPrefix+key)
	if err != nil || !ok {
		return "", false
	}
	return v, true
}

// DeleteLocal removes a mirror-only entry.
func (d *DualStore) DeleteLocal(ctx context.Context, key string) {
	if d.mirror == nil {
		return
	}
	if err := d.mirror.Delete(ctx, keyPrefix+key); err != nil {
		d.logger.Debug("mirror delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (d *DualStore) repairMirror(ctx context.Context, pk, value string) {
	if d.mirror == nil {
		return
	}
	if err := d.mirror.Set(ctx, pk, value, 0); err != nil {
		d.logger.Debug("mirror resync failed", zap.String("key", pk), zap.Error(err))
	}
}

func (d *DualStore) repairPrimary(ctx context.Context, pk, value string) {
	if d.primary == nil {
		return
	}
	if err := d.primary.Set(ctx, pk, value, DefaultTTL); err != nil {
		d.logger.Debug("primary restore failed", zap.String("key", pk), zap.Error(err))
	}
}
