// Package configstore provides a typed key/value configuration store backed by a
// relational table.
//
// Configuration rows are addressed by a unique string key, derived either from a
// plain string or from a schema type. Reads go through a pluggable cache (in-memory,
// ttlcache or Redis) and fall back to the persistence backend on a miss; writes go to
// persistence first and then invalidate the cache entry so the next read refreshes it.
//
// Every operation takes a context. Callers that cannot carry one use the blocking
// adapter returned by Store.Sync, which drives the same implementation to completion.
package configstore
