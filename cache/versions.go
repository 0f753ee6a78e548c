// Package cache provides a sharded, thread-safe version tracker used by the
// staging layer to remember the last scene version it uploaded per object.
package cache

import (
	"sync"
	"sync/atomic"
)

// Default configuration constants.
const (
	// ShardCount is the number of shards for reduced lock contention.
	// Must be a power of 2 for fast modulo via bitwise AND.
	ShardCount = 16

	// shardMask is used for fast shard selection (ShardCount - 1).
	shardMask = ShardCount - 1
)

// mix spreads a 64-bit key across shards. FNV-1a over the key's bytes,
// unrolled; identity hashing would put sequentially allocated object ids
// into adjacent shards, which is fine, but mixing keeps the distribution
// independent of the id allocation pattern.
func mix(key uint64) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < 8; i++ {
		h ^= (key >> (8 * i)) & 0xff
		h *= prime64
	}
	return h
}

// Versions tracks a monotonically increasing version per 64-bit object id.
//
// It answers one question for the staging layer: has this object changed
// since the version I last uploaded? Entries for destroyed objects are
// removed with Forget.
//
// Versions is safe for concurrent use; each shard has its own lock, and hit
// and miss statistics are kept atomically.
type Versions struct {
	shards [ShardCount]versionShard

	// Statistics (atomic for zero-allocation reads)
	hits   atomic.Uint64
	misses atomic.Uint64
}

// versionShard is a single shard. Each shard has its own mutex.
type versionShard struct {
	mu      sync.RWMutex
	entries map[uint64]uint64
}

// NewVersions creates an empty version tracker.
func NewVersions() *Versions {
	v := &Versions{}
	for i := range v.shards {
		v.shards[i].entries = make(map[uint64]uint64)
	}
	return v
}

// shard returns the shard for a given key.
func (v *Versions) shard(key uint64) *versionShard {
	return &v.shards[mix(key)&shardMask]
}

// Get returns the recorded version for key.
// Returns (version, true) if present, (0, false) otherwise.
func (v *Versions) Get(key uint64) (uint64, bool) {
	s := v.shard(key)
	s.mu.RLock()
	ver, ok := s.entries[key]
	s.mu.RUnlock()

	if ok {
		v.hits.Add(1)
	} else {
		v.misses.Add(1)
	}
	return ver, ok
}

// UpToDate reports whether key was recorded at a version >= version.
func (v *Versions) UpToDate(key, version uint64) bool {
	recorded, ok := v.Get(key)
	return ok && recorded >= version
}

// Set records the version for key, replacing any previous record.
func (v *Versions) Set(key, version uint64) {
	s := v.shard(key)
	s.mu.Lock()
	s.entries[key] = version
	s.mu.Unlock()
}

// Forget removes the record for key. Called when the tracked object is
// destroyed so the tracker does not grow without bound.
func (v *Versions) Forget(key uint64) {
	s := v.shard(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the total number of tracked objects.
func (v *Versions) Len() int {
	n := 0
	for i := range v.shards {
		s := &v.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Stats returns the cumulative hit and miss counts.
func (v *Versions) Stats() (hits, misses uint64) {
	return v.hits.Load(), v.misses.Load()
}
