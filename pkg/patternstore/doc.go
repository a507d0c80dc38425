// Package patternstore provides type-safe Go definitions and Redis schema
// patterns for the Burnish learned-pattern store. The store is the pipeline's
// long-lived memory: every evaluation cycle writes its outcome here, and the
// adjustment strategies read accumulated statistics back out to bias future
// content generation.
//
// All Redis keys are namespaced so multiple Burnish deployments can safely
// coexist on a single Redis server.
//
// Consistency contract: all writes for a single outcome are applied inside one
// MULTI/EXEC transaction, so concurrent recorders from parallel cycles never
// interleave partial updates to the aggregated statistics. Reads are plain
// commands with relaxed freshness - a slightly stale sweet-spot range only
// biases a later adjustment, it cannot corrupt state.
package patternstore
