// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cloudcache

import (
	"errors"
	"fmt"
)

// ErrInvalidContext is returned when a Context is missing a field the cache
// level requires. A missing key component is a caller bug, not a miss; it is
// rejected rather than treated as a wildcard, which would corrupt keying.
var ErrInvalidContext = errors.New("invalid cache context")

// ErrTypeMismatch is returned when a cache name is requested with a different
// payload type than it was first registered with.
var ErrTypeMismatch = errors.New("cache payload type mismatch")

// Level selects which Context fields form the lookup key for a cache. It is
// fixed when the cache is first registered.
type Level int

const (
	// LevelGlobal keys entries by endpoint only. Use for data identical
	// across every account and region of a cloud, like the region list.
	LevelGlobal Level = iota
	// LevelGlobalPerAccount keys entries by endpoint and account.
	LevelGlobalPerAccount
	// LevelPerRegion keys entries by endpoint and region.
	LevelPerRegion
	// LevelPerRegionPerAccount keys entries by endpoint, region and account.
	LevelPerRegionPerAccount
)

func (l Level) String() string {
	switch l {
	case LevelGlobal:
		return "global"
	case LevelGlobalPerAccount:
		return "global-per-account"
	case LevelPerRegion:
		return "per-region"
	case LevelPerRegionPerAccount:
		return "per-region-per-account"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Context carries the caller's provider coordinates. Which fields are
// required depends on the level of the cache being addressed; fields the
// level does not use are ignored.
type Context struct {
	Endpoint  string
	AccountID string
	RegionID  string
}

// cacheKey is the normalized composite key for one entry. Components the
// level does not use stay empty, so a single flat map serves all four levels
// without the level-specific nesting the key hierarchy implies.
type cacheKey struct {
	endpoint string
	region   string
	account  string
}

// key validates ctx against the level's requirements and folds the relevant
// fields into a cacheKey.
func (l Level) key(ctx Context) (cacheKey, error) {
	if ctx.Endpoint == "" {
		return cacheKey{}, fmt.Errorf("%w: endpoint is required", ErrInvalidContext)
	}

	k := cacheKey{endpoint: ctx.Endpoint}

	if l == LevelPerRegion || l == LevelPerRegionPerAccount {
		if ctx.RegionID == "" {
			return cacheKey{}, fmt.Errorf("%w: regionId is required at level %s", ErrInvalidContext, l)
		}
		k.region = ctx.RegionID
	}

	if l == LevelGlobalPerAccount || l == LevelPerRegionPerAccount {
		if ctx.AccountID == "" {
			return cacheKey{}, fmt.Errorf("%w: accountId is required at level %s", ErrInvalidContext, l)
		}
		k.account = ctx.AccountID
	}

	return k, nil
}
