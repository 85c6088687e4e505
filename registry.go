// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cloudcache

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/staranto/cloudcachego/internal/config"
)

// controls is the type-erased face of a Cache inside the registry, so
// registry-wide sweeps don't need to know payload types.
type controls interface {
	Clear()
	Reclaim()
	Size() int
}

// Registry hands out one shared Cache per (owner type, name) pair. It only
// ever grows; caches model a small closed set of resource types, so there is
// no removal, only clearing of contents.
//
// Construct one Registry per process (or per test) and pass it to the call
// sites that cache. Default returns a process-wide instance for callers that
// don't need that control.
type Registry struct {
	mu     sync.Mutex
	caches map[string]any

	timeout  time.Duration
	ceiling  time.Duration
	disabled bool
	now      func() time.Time
}

// NewRegistry builds a registry with defaults from cloudcache.yaml
// (cache.timeout in minutes, cache.ceiling in hours, cache.disabled) and the
// CLOUDCACHE_CACHE kill switch.
func NewRegistry() *Registry {
	timeoutMin, _ := config.GetInt("cache.timeout", int(DefaultTimeout/time.Minute))
	ceilingHrs, _ := config.GetInt("cache.ceiling", int(DefaultCeiling/time.Hour))
	disabled, _ := config.GetBool("cache.disabled", false)

	r := &Registry{
		caches:   make(map[string]any),
		timeout:  time.Duration(timeoutMin) * time.Minute,
		ceiling:  time.Duration(ceilingHrs) * time.Hour,
		disabled: disabled || !Enabled(),
		now:      time.Now,
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.ceiling <= 0 {
		r.ceiling = DefaultCeiling
	}
	return r
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry, created on first use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Enabled returns true unless CLOUDCACHE_CACHE explicitly disables caching
// ("0"/"false"). With caching disabled every Get misses and Put is a no-op,
// which is handy when chasing staleness bugs.
func Enabled() bool {
	enabled, _ := os.LookupEnv("CLOUDCACHE_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// GetOrCreate returns the cache registered under owner's concrete type and
// name, creating it on first use. The level and timeout only matter on that
// first call; later calls get the existing instance untouched, whatever they
// pass. A timeout of zero selects the registry default. If the name was first
// registered with a different payload type, ErrTypeMismatch is returned.
//
// Lookup-or-create is atomic: concurrent callers racing on the same key
// observe exactly one instance.
func GetOrCreate[T any](r *Registry, owner any, name string, level Level, timeout time.Duration) (*Cache[T], error) {
	key := fmt.Sprintf("%T.%s", owner, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.caches[key]; ok {
		c, ok := existing.(*Cache[T])
		if !ok {
			return nil, fmt.Errorf("%w: %s already registered as %T", ErrTypeMismatch, key, existing)
		}
		return c, nil
	}

	if timeout <= 0 {
		timeout = r.timeout
	}

	c := &Cache[T]{
		level:    level,
		timeout:  timeout,
		ceiling:  r.ceiling,
		entries:  make(map[cacheKey]*entry[T]),
		disabled: r.disabled,
		now:      r.now,
	}
	c.createdAt = c.now()

	r.caches[key] = c
	log.Debugf("registered cache %s level=%s timeout=%s", key, level, timeout)
	return c, nil
}

// Len reports how many caches have been registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.caches)
}

// ClearAll clears the contents of every registered cache. The caches
// themselves stay registered.
func (r *Registry) ClearAll() {
	for _, c := range r.snapshot() {
		c.Clear()
	}
}

// ReclaimAll releases every payload in every registered cache. Wire this to
// a memory-pressure signal to mimic soft-reference collection.
func (r *Registry) ReclaimAll() {
	for _, c := range r.snapshot() {
		c.Reclaim()
	}
}

// snapshot copies the cache list under the registry lock so sweeps take each
// cache's own lock without holding the registry's.
func (r *Registry) snapshot() []controls {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]controls, 0, len(r.caches))
	for _, c := range r.caches {
		if ctl, ok := c.(controls); ok {
			out = append(out, ctl)
		}
	}
	return out
}
