package schema

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often the background refresh loop rebuilds
// the snapshot.
const DefaultRefreshInterval = 5 * time.Minute

// DefaultRefreshTimeout bounds a single discovery pass.
const DefaultRefreshTimeout = 30 * time.Second

// Discoverer produces the current table set from some backing source.
type Discoverer interface {
	DiscoverTables(ctx context.Context) ([]Table, error)
}

// Cache holds the latest schema snapshot. Reads are lock-free; a refresh
// builds the new snapshot aside and swaps it in atomically, so a failed
// refresh leaves the previous snapshot in place.
type Cache struct {
	discoverer Discoverer
	interval   time.Duration
	timeout    time.Duration
	logger     *zap.Logger

	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

// CacheOption customizes a Cache.
type CacheOption func(*Cache)

// WithRefreshInterval overrides the background refresh period.
func WithRefreshInterval(d time.Duration) CacheOption {
	return func(c *Cache) { c.interval = d }
}

// WithRefreshTimeout overrides the per-refresh deadline.
func WithRefreshTimeout(d time.Duration) CacheOption {
	return func(c *Cache) { c.timeout = d }
}

// NewCache creates a cache over the given discoverer. The cache starts
// empty; call Refresh or Start to populate it. If logger is nil, a no-op
// logger is used.
func NewCache(discoverer Discoverer, logger *zap.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cache{
		discoverer: discoverer,
		interval:   DefaultRefreshInterval,
		timeout:    DefaultRefreshTimeout,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.snapshot.Store(NewSnapshot(nil, time.Time{}))
	return c
}

// Snapshot returns the current snapshot. The result is immutable and safe
// to read without synchronization.
func (c *Cache) Snapshot() *Snapshot {
	return c.snapshot.Load()
}

// Refresh rebuilds the snapshot from the discoverer. On error the existing
// snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tables, err := c.discoverer.DiscoverTables(ctx)
	if err != nil {
		c.logger.Warn("Schema refresh failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("discover tables: %w", err)
	}

	snapshot := NewSnapshot(tables, c.now())
	c.snapshot.Store(snapshot)
	c.logger.Info("Schema snapshot refreshed",
		zap.Int("tables", len(snapshot.Tables)),
		zap.Time("last_update", snapshot.LastUpdate))
	return nil
}

// Start performs an initial refresh and then refreshes on a ticker until
// ctx is cancelled. The initial refresh error is returned; background
// refresh errors are logged and retried on the next tick.
func (c *Cache) Start(ctx context.Context) error {
	err := c.Refresh(ctx)

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Refresh(ctx); err != nil {
					c.logger.Warn("Background schema refresh failed", zap.Error(err))
				}
			}
		}
	}()

	return err
}
