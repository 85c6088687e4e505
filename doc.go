// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package cloudcache memoizes slow-changing cloud resource listings (regions,
// buckets, zones) so callers can avoid hammering a provider API for data that
// changes at most a few times a year. Caches are obtained from a registry,
// keyed by owner type and name, and scoped to one of four levels: per
// endpoint, per account, per region, or per region and account.
//
//	cache, _ := cloudcache.GetOrCreate[Region](reg, provider, "regions",
//		cloudcache.LevelGlobal, 0)
//	regions, ok, _ := cache.Get(pctx)
//	if !ok {
//		regions = expensiveListCall()
//		_ = cache.Put(pctx, regions)
//	}
//
// Entries expire after a per-cache timeout (one hour unless overridden) and
// the whole cache is dropped wholesale once it has gone 24 hours without a
// clear. Payloads may also be released early under memory pressure via
// Reclaim, so every Get must tolerate a miss, even moments after a Put.
package cloudcache
