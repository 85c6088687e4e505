// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cloudcache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests march time forward without sleeping.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testCache[T any](level Level, timeout time.Duration) (*Cache[T], *fakeClock) {
	clk := newFakeClock()
	c := NewCache[T](level, timeout)
	c.now = clk.Now
	c.createdAt = clk.Now()
	return c, clk
}

func fullContext() Context {
	return Context{
		Endpoint:  "https://api.cloud.example",
		AccountID: "acct-1",
		RegionID:  "us-east-1",
	}
}

func TestGetOnEmptyCacheMisses(t *testing.T) {
	c, _ := testCache[string](LevelGlobal, time.Hour)

	items, ok, err := c.Get(fullContext())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, items)
}

func TestPutThenGet(t *testing.T) {
	c, _ := testCache[string](LevelPerRegionPerAccount, time.Hour)
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"a", "b"}))

	items, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestLevelIsolation(t *testing.T) {
	base := fullContext()

	tests := []struct {
		name    string
		level   Level
		other   Context
		wantHit bool
	}{
		{
			name:    "finest level misses for a different account",
			level:   LevelPerRegionPerAccount,
			other:   Context{Endpoint: base.Endpoint, RegionID: base.RegionID, AccountID: "acct-2"},
			wantHit: false,
		},
		{
			name:    "finest level misses for a different region",
			level:   LevelPerRegionPerAccount,
			other:   Context{Endpoint: base.Endpoint, RegionID: "eu-west-1", AccountID: base.AccountID},
			wantHit: false,
		},
		{
			name:    "per-region level ignores a differing account",
			level:   LevelPerRegion,
			other:   Context{Endpoint: base.Endpoint, RegionID: base.RegionID, AccountID: "acct-2"},
			wantHit: true,
		},
		{
			name:    "per-account level ignores a differing region",
			level:   LevelGlobalPerAccount,
			other:   Context{Endpoint: base.Endpoint, RegionID: "eu-west-1", AccountID: base.AccountID},
			wantHit: true,
		},
		{
			name:    "global level ignores both",
			level:   LevelGlobal,
			other:   Context{Endpoint: base.Endpoint, RegionID: "eu-west-1", AccountID: "acct-2"},
			wantHit: true,
		},
		{
			name:    "global level misses for a different endpoint",
			level:   LevelGlobal,
			other:   Context{Endpoint: "https://other.cloud.example"},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testCache[int](tt.level, time.Hour)
			require.NoError(t, c.Put(base, []int{1, 2, 3}))

			_, ok, err := c.Get(tt.other)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHit, ok)

			// The original key always stays visible.
			_, ok, err = c.Get(base)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestTimeoutExpiresEntry(t *testing.T) {
	c, clk := testCache[string](LevelGlobal, 100*time.Millisecond)
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"fresh"}))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	clk.Advance(150 * time.Millisecond)

	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// The stale record is dropped on read, not just hidden.
	assert.Equal(t, 0, c.Size())
}

func TestAgeCeilingClearsEverything(t *testing.T) {
	c, clk := testCache[string](LevelGlobal, time.Hour)
	ctx := fullContext()

	// Age the cache 25 hours, then write a fresh entry. The entry is well
	// inside its timeout, but the ceiling still wins on the next read.
	c.createdAt = clk.Now().Add(-25 * time.Hour)
	require.NoError(t, c.Put(ctx, []string{"fresh"}))
	require.Equal(t, 1, c.Size())

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())

	// The clear reset the ceiling, so the cache works again.
	require.NoError(t, c.Put(ctx, []string{"again"}))
	items, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"again"}, items)
}

func TestPutOverwrites(t *testing.T) {
	c, _ := testCache[string](LevelPerRegion, time.Hour)
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"first"}))
	require.NoError(t, c.Put(ctx, []string{"second"}))

	items, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"second"}, items)
	assert.Equal(t, 1, c.Size())
}

func TestClearEmptiesCache(t *testing.T) {
	c, _ := testCache[string](LevelGlobalPerAccount, time.Hour)
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"x"}))
	c.Clear()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestReclaimedPayloadMisses(t *testing.T) {
	c, _ := testCache[string](LevelGlobal, time.Hour)
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"x"}))
	c.Reclaim()

	// The record survives but the payload is gone, so reads miss.
	assert.Equal(t, 1, c.Size())
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// A new Put brings the key back to life.
	require.NoError(t, c.Put(ctx, []string{"y"}))
	items, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"y"}, items)
}

func TestAgeReportsTimeSinceStore(t *testing.T) {
	c, clk := testCache[string](LevelGlobal, time.Hour)
	ctx := fullContext()

	_, ok, err := c.Age(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, []string{"x"}))
	clk.Advance(5 * time.Minute)

	age, ok, err := c.Age(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5*time.Minute, age)
}

func TestAgeMissesWheneverGetWould(t *testing.T) {
	ctx := fullContext()

	t.Run("entry past its timeout", func(t *testing.T) {
		c, clk := testCache[string](LevelGlobal, 100*time.Millisecond)
		require.NoError(t, c.Put(ctx, []string{"x"}))
		clk.Advance(150 * time.Millisecond)

		_, ok, err := c.Age(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		// Age only peeks; eviction stays with Get.
		assert.Equal(t, 1, c.Size())
	})

	t.Run("cache past its ceiling", func(t *testing.T) {
		c, clk := testCache[string](LevelGlobal, time.Hour)
		c.createdAt = clk.Now().Add(-25 * time.Hour)
		require.NoError(t, c.Put(ctx, []string{"x"}))

		_, ok, err := c.Age(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 1, c.Size())
	})

	t.Run("disabled cache", func(t *testing.T) {
		c, _ := testCache[string](LevelGlobal, time.Hour)
		require.NoError(t, c.Put(ctx, []string{"x"}))
		c.disabled = true

		_, ok, err := c.Age(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("reclaimed payload", func(t *testing.T) {
		c, _ := testCache[string](LevelGlobal, time.Hour)
		require.NoError(t, c.Put(ctx, []string{"x"}))
		c.Reclaim()

		_, ok, err := c.Age(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	c, _ := testCache[string](LevelGlobal, time.Hour)
	c.disabled = true
	ctx := fullContext()

	require.NoError(t, c.Put(ctx, []string{"x"}))
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestInvalidContextRejected(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		ctx   Context
	}{
		{
			name:  "missing endpoint",
			level: LevelGlobal,
			ctx:   Context{AccountID: "acct-1", RegionID: "us-east-1"},
		},
		{
			name:  "missing account at per-account level",
			level: LevelGlobalPerAccount,
			ctx:   Context{Endpoint: "https://api.cloud.example", RegionID: "us-east-1"},
		},
		{
			name:  "missing region at per-region level",
			level: LevelPerRegion,
			ctx:   Context{Endpoint: "https://api.cloud.example", AccountID: "acct-1"},
		},
		{
			name:  "missing both at finest level",
			level: LevelPerRegionPerAccount,
			ctx:   Context{Endpoint: "https://api.cloud.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testCache[string](tt.level, time.Hour)

			_, _, err := c.Get(tt.ctx)
			assert.ErrorIs(t, err, ErrInvalidContext)

			err = c.Put(tt.ctx, []string{"x"})
			assert.ErrorIs(t, err, ErrInvalidContext)

			_, _, err = c.Age(tt.ctx)
			assert.ErrorIs(t, err, ErrInvalidContext)
		})
	}
}

func TestConcurrentGetPutClear(t *testing.T) {
	c, _ := testCache[int](LevelPerRegionPerAccount, time.Hour)
	ctx := fullContext()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				switch n % 3 {
				case 0:
					_ = c.Put(ctx, []int{n, j})
				case 1:
					_, _, _ = c.Get(ctx)
				default:
					c.Clear()
				}
			}
		}(i)
	}
	wg.Wait()

	// Whatever interleaving happened, the cache must still be coherent.
	require.NoError(t, c.Put(ctx, []int{42}))
	items, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{42}, items)
}
