package cache

import (
	"sync"
	"testing"
)

func TestVersionsGetSet(t *testing.T) {
	v := NewVersions()
	if _, ok := v.Get(7); ok {
		t.Error("Get() on empty tracker returned ok")
	}
	v.Set(7, 3)
	ver, ok := v.Get(7)
	if !ok || ver != 3 {
		t.Errorf("Get(7) = %d, %v; want 3, true", ver, ok)
	}
	v.Set(7, 9)
	if ver, _ := v.Get(7); ver != 9 {
		t.Errorf("Get(7) after overwrite = %d, want 9", ver)
	}
}

func TestVersionsUpToDate(t *testing.T) {
	v := NewVersions()
	if v.UpToDate(1, 0) {
		t.Error("UpToDate() on untracked key = true, want false")
	}
	v.Set(1, 5)
	tests := []struct {
		version uint64
		want    bool
	}{
		{4, true},
		{5, true},
		{6, false},
	}
	for _, tt := range tests {
		if got := v.UpToDate(1, tt.version); got != tt.want {
			t.Errorf("UpToDate(1, %d) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestVersionsForget(t *testing.T) {
	v := NewVersions()
	v.Set(42, 1)
	v.Forget(42)
	if _, ok := v.Get(42); ok {
		t.Error("Get() after Forget returned ok")
	}
	// Forget of an unknown key is a no-op.
	v.Forget(99)
}

func TestVersionsLen(t *testing.T) {
	v := NewVersions()
	if got := v.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	for i := uint64(0); i < 100; i++ {
		v.Set(i, i)
	}
	if got := v.Len(); got != 100 {
		t.Errorf("Len() = %d, want 100", got)
	}
	v.Forget(50)
	if got := v.Len(); got != 99 {
		t.Errorf("Len() after Forget = %d, want 99", got)
	}
}

func TestVersionsStats(t *testing.T) {
	v := NewVersions()
	v.Set(1, 1)
	v.Get(1) // hit
	v.Get(2) // miss
	v.Get(1) // hit
	hits, misses := v.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d, %d; want 2, 1", hits, misses)
	}
}

func TestVersionsConcurrent(t *testing.T) {
	v := NewVersions()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := uint64(g*1000 + i)
				v.Set(key, uint64(i))
				v.Get(key)
				v.UpToDate(key, uint64(i))
			}
		}(g)
	}
	wg.Wait()
	if got := v.Len(); got != 8000 {
		t.Errorf("Len() = %d, want 8000", got)
	}
}

func TestMixDistribution(t *testing.T) {
	// Sequential keys must not all land in one shard.
	seen := make(map[uint64]bool)
	for key := uint64(0); key < 256; key++ {
		seen[mix(key)&shardMask] = true
	}
	if len(seen) < ShardCount/2 {
		t.Errorf("sequential keys hit only %d shards of %d", len(seen), ShardCount)
	}
}
