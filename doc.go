// Package swrcache implements stale-while-revalidate request caching on top of
// a pluggable store. A fetch answers immediately with whatever the cache holds
// and, when that answer is not fresh enough, follows up with the result of a
// background refresh.
//
// Components:
//   - Store[V]: entries of (value, write timestamp in unix ms). store.New
//     adapts any byte Provider (Ristretto, BigCache, Redis) plus a Codec[V].
//   - Issuer[V, R]: performs the real request; must honor ctx cancellation.
//   - Request[V, R]: one cache-then-maybe-network run; Run is memoized.
//   - Walk, FinalValue, InitialValue, SpliceOnEnd: consume response chains.
//
// Response chain:
//
//	res := f.Fetch(ctx, req)
//	first, _ := res.Response.Wait(ctx) // cache stage, maybe with Next
//	if first.Next != nil {
//	    second, _ := first.Next.Wait(ctx) // network stage
//	}
//
// Modes:
//
//	ModeDefault       cache (bounded by MaxAge), refresh unless fresh
//	ModeNoStore       never read or write the cache
//	ModeNoCache       never read the cache, still write refreshed values
//	ModeForceCache    cache regardless of age, refresh unless fresh
//	ModeOnlyIfCached  cache regardless of age, never refresh
package swrcache
