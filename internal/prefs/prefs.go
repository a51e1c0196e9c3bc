// Package prefs gives the CLI validated, defaulted access to the small set
// of operator preferences. Stored values that fail validation fall back to
// the default; nothing in here ever errors out to the caller.
package prefs

import (
	"context"
	"errors"
	"os"
	"time"

	"sysboard/internal/store"
)

const (
	keyTimezone    = "history_timezone"
	keyNetworkUnit = "network_unit"

	prefTTL = 365 * 24 * time.Hour
)

// Accepted network-rate units.
const (
	UnitMBps = "MB/s"
	UnitMbps = "Mbps"
)

var ErrEmptyValue = errors.New("prefs: empty value")

// preference ties a store key to its default and validation rule.
type preference struct {
	key      string
	fallback string
	valid    func(string) bool
}

var (
	timezonePref = preference{
		key:   keyTimezone,
		valid: func(v string) bool { return v != "" },
	}
	networkUnitPref = preference{
		key:      keyNetworkUnit,
		fallback: UnitMBps,
		valid:    func(v string) bool { return v == UnitMBps || v == UnitMbps },
	}
)

type Registry struct {
	store     *store.DualStore
	localZone func() string
}

func NewRegistry(s *store.DualStore) *Registry {
	return &Registry{store: s, localZone: systemZone}
}

// NewRegistryWithZone injects the environment timezone lookup.
func NewRegistryWithZone(s *store.DualStore, zone func() string) *Registry {
	return &Registry{store: s, localZone: zone}
}

// Timezone returns the stored preference, or the environment's zone when the
// operator never chose one. The introspected value is not persisted: no
// preference exists until one is set deliberately.
func (r *Registry) Timezone(ctx context.Context) string {
	if v, ok := r.lookup(ctx, timezonePref); ok {
		return v
	}
	return r.localZone()
}

// SetTimezone persists the identifier. Only emptiness is rejected here;
// consumers validate the zone name when they load it.
func (r *Registry) SetTimezone(ctx context.Context, v string) error {
	if v == "" {
		return ErrEmptyValue
	}
	r.store.Set(ctx, keyTimezone, v, prefTTL)
	return nil
}

// NetworkUnit returns "MB/s" or "Mbps"; anything else stored decays to the
// default.
func (r *Registry) NetworkUnit(ctx context.Context) string {
	v, _ := r.lookup(ctx, networkUnitPref)
	return v
}

func (r *Registry) SetNetworkUnit(ctx context.Context, v string) {
	r.store.Set(ctx, keyNetworkUnit, v, prefTTL)
}

// ClearAll removes every registry key.
func (r *Registry) ClearAll(ctx context.Context) {
	r.store.Remove(ctx, keyTimezone)
	r.store.Remove(ctx, keyNetworkUnit)
}

// lookup returns (value, true) when a stored value passes its validator,
// else (fallback, false).
func (r *Registry) lookup(ctx context.Context, p preference) (string, bool) {
	if v, ok := r.store.Get(ctx, p.key); ok && p.valid(v) {
		return v, true
	}
	return p.fallback, false
}

// systemZone asks the environment for the local zone identifier, failing
// closed to UTC. time.Local only carries a real name when TZ is set.
func systemZone() string {
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	return "UTC"
}
