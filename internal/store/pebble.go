package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// PebbleBackend is the local-only backend: larger than the primary, no
// expiry metadata, private to the operator state directory.
type PebbleBackend struct {
	db     *pebble.DB
	path   string
	logger *zap.Logger
}

// NewPebbleBackend opens (or creates) the database at path.
func NewPebbleBackend(path string, logger *zap.Logger) (*PebbleBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := &pebble.Options{
		Logger: &pebbleLogger{logger},
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open %s: %w", path, err)
	}
	return &PebbleBackend{db: db, path: path, logger: logger}, nil
}

func (p *PebbleBackend) Get(ctx context.Context, key string) (string, bool, error) {
	data, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()

	v := make([]byte, len(data))
	copy(v, data)
	return string(v), true, nil
}

// Set stores the value. The TTL is ignored; pebble has no expiry concept.
func (p *PebbleBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := p.db.Set([]byte(key), []byte(value), pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

func (p *PebbleBackend) Delete(ctx context.Context, key string) error {
	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("pebble delete: %w", err)
	}
	return nil
}

// Close flushes and closes the database.
func (p *PebbleBackend) Close() error {
	return p.db.Close()
}

// pebbleLogger adapts zap.Logger to the pebble.Logger interface.
type pebbleLogger struct {
	z *zap.Logger
}

func (l *pebbleLogger) Infof(format string, args ...any) {
	l.z.Sugar().Infof(format, args...)
}

func (l *pebbleLogger) Fatalf(format string, args ...any) {
	l.z.Sugar().Fatalf(format, args...)
}
