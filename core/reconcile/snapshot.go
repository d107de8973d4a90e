package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LiveSource loads the current listings for a target from the live feed.
type LiveSource interface {
	// Name returns a short label for logs and errors (e.g. "encar").
	Name() string

	// LoadLive returns the live listings indexed by identifier.
	LoadLive(ctx context.Context, target Target) (map[string]LiveRecord, error)
}

// RecordSource loads the stored records for a target.
type RecordSource interface {
	// Name returns a short label for logs and errors (e.g. "notion").
	Name() string

	// LoadStored returns the stored records indexed by identifier.
	LoadStored(ctx context.Context, target Target) (map[string]StoredRecord, error)
}

// Spec bundles the sources and cache settings for one target.
type Spec struct {
	// Target is the vehicle to reconcile.
	Target Target

	// Live provides the live feed.
	Live LiveSource

	// Store provides the stored records.
	Store RecordSource

	// CacheTTL is the time-to-live for cached snapshots.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	return s.Live.Name() + "|" + s.Store.Name() + "|" + s.Target.Key()
}

// cachedSnapshot is a snapshot with its expiry bookkeeping.
type cachedSnapshot struct {
	snapshot *Snapshot
	built    time.Time
	ttl      time.Duration
}

// isExpired returns true if this entry has expired based on its TTL.
func (c *cachedSnapshot) isExpired() bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return time.Since(c.built) > c.ttl
}

// snapshotStore holds cached snapshots keyed by spec cache key.
type snapshotStore struct {
	mu      sync.RWMutex
	entries map[string]*cachedSnapshot
	sf      singleflight.Group
}

var globalSnapshotStore = &snapshotStore{
	entries: make(map[string]*cachedSnapshot),
}

// LoadSnapshot loads both sides of a target concurrently.
// This function does NOT cache; use GetOrLoadSnapshot for that.
func LoadSnapshot(ctx context.Context, spec *Spec) (*Snapshot, error) {
	if spec.Live == nil || spec.Store == nil {
		return nil, fmt.Errorf("snapshot spec needs both a live source and a record source")
	}

	var (
		live   map[string]LiveRecord
		stored map[string]StoredRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		live, err = spec.Live.LoadLive(gctx, spec.Target)
		if err != nil {
			return fmt.Errorf("failed to load %s listings: %w", spec.Live.Name(), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stored, err = spec.Store.LoadStored(gctx, spec.Target)
		if err != nil {
			return fmt.Errorf("failed to load %s records: %w", spec.Store.Name(), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if live == nil {
		live = map[string]LiveRecord{}
	}
	if stored == nil {
		stored = map[string]StoredRecord{}
	}

	return &Snapshot{
		Target:   spec.Target,
		Live:     live,
		Stored:   stored,
		LoadedAt: time.Now(),
	}, nil
}

// GetOrLoadSnapshot returns a cached snapshot for the spec, or loads a new one
// if it doesn't exist or has expired.
// Uses singleflight to prevent concurrent loads of the same target.
func GetOrLoadSnapshot(ctx context.Context, spec *Spec) (*Snapshot, error) {
	if spec.CacheTTL <= 0 {
		return LoadSnapshot(ctx, spec)
	}

	cacheKey := spec.CacheKey()

	// Fast path: check if snapshot exists and is fresh
	globalSnapshotStore.mu.RLock()
	entry, exists := globalSnapshotStore.entries[cacheKey]
	globalSnapshotStore.mu.RUnlock()

	if exists && !entry.isExpired() {
		return entry.snapshot, nil
	}

	result, err, _ := globalSnapshotStore.sf.Do(cacheKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		globalSnapshotStore.mu.RLock()
		entry, exists := globalSnapshotStore.entries[cacheKey]
		globalSnapshotStore.mu.RUnlock()

		if exists && !entry.isExpired() {
			return entry.snapshot, nil
		}

		snap, err := LoadSnapshot(ctx, spec)
		if err != nil {
			return nil, err
		}

		globalSnapshotStore.mu.Lock()
		globalSnapshotStore.entries[cacheKey] = &cachedSnapshot{
			snapshot: snap,
			built:    time.Now(),
			ttl:      spec.CacheTTL,
		}
		globalSnapshotStore.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// InvalidateSnapshot removes the cached snapshot for the spec.
// Callers that mutate the store invalidate so the next read sees the new state.
func InvalidateSnapshot(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalSnapshotStore.mu.Lock()
	delete(globalSnapshotStore.entries, cacheKey)
	globalSnapshotStore.mu.Unlock()
}
