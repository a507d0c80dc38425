package patternstore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Client provides namespace-scoped Redis operations for the pattern store.
// All keys are automatically namespaced with the deployment name. The client
// is thread-safe and can be used concurrently from multiple goroutines - the
// recorder serializes each outcome's writes inside a single MULTI/EXEC.
type Client struct {
	rdb       *redis.Client
	namespace string
}

// NewClient creates a new pattern store client for the specified namespace.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - namespace: Burnish deployment identifier (must not be empty)
//
// Returns an error if namespace is empty.
func NewClient(redisOpts *redis.Options, namespace string) (*Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace cannot be empty")
	}

	return &Client{
		rdb:       redis.NewClient(redisOpts),
		namespace: namespace,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
// After calling Close(), the client should not be used.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
// Returns an error if Redis is not reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// RecordOutcome persists one evaluation outcome and updates the aggregated
// statistics derived from it. All writes happen inside a single MULTI/EXEC
// transaction so concurrent recorders never produce partial updates.
//
// Derived statistics:
//   - accepted outcomes add each generation parameter value to the
//     component's per-parameter ZSET (scored by composite quality)
//   - rejected outcomes increment the component's AI-tendency counters
//   - the accepted/rejected counter and the component/parameter indexes are
//     always maintained
//
// Validates the outcome before writing.
func (c *Client) RecordOutcome(ctx context.Context, o *OutcomeRecord) error {
	if err := o.Validate(); err != nil {
		return fmt.Errorf("invalid outcome: %w", err)
	}

	hash, err := OutcomeToHash(o)
	if err != nil {
		return fmt.Errorf("failed to serialize outcome: %w", err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, OutcomeKey(c.namespace, o.ID), hash)
		pipe.SAdd(ctx, ComponentIndexKey(c.namespace), o.ComponentType)

		statsField := "rejected"
		if o.Accepted {
			statsField = "accepted"
		}
		pipe.HIncrBy(ctx, StatsKey(c.namespace, o.ComponentType), statsField, 1)

		if o.Accepted {
			for param, value := range o.Params {
				pipe.SAdd(ctx, ParamIndexKey(c.namespace, o.ComponentType), param)
				pipe.ZAdd(ctx, ParamKey(c.namespace, o.ComponentType, param), redis.Z{
					Score:  o.Composite,
					Member: ParamMember(value, o.ID),
				})
			}
		} else {
			for _, tendency := range o.AITendencies {
				pipe.HIncrBy(ctx, TendencyKey(c.namespace, o.ComponentType), tendency, 1)
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

// GetOutcome retrieves a recorded outcome by ID.
// Returns (nil, redis.Nil) if the outcome doesn't exist.
// Use IsNotFound() to check for not-found errors.
func (c *Client) GetOutcome(ctx context.Context, outcomeID string) (*OutcomeRecord, error) {
	key := OutcomeKey(c.namespace, outcomeID)

	hashData, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read outcome from Redis: %w", err)
	}

	// HGetAll returns an empty map for non-existent keys
	if len(hashData) == 0 {
		return nil, redis.Nil
	}

	outcome, err := HashToOutcome(hashData)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize outcome: %w", err)
	}

	return outcome, nil
}

// SweetSpots returns the sweet-spot range for every parameter the component
// type has accepted history for: the median value among the top 25% of
// accepted outcomes ranked by composite quality, with a confidence tier
// derived from the total accepted-sample count.
//
// Returns an empty slice when the component has no accepted history.
// Reads are not transactional - sweet spots tolerate relaxed freshness.
func (c *Client) SweetSpots(ctx context.Context, componentType string) ([]SweetSpot, error) {
	params, err := c.rdb.SMembers(ctx, ParamIndexKey(c.namespace, componentType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter index: %w", err)
	}
	sort.Strings(params)

	spots := make([]SweetSpot, 0, len(params))
	for _, param := range params {
		key := ParamKey(c.namespace, componentType, param)

		total, err := c.rdb.ZCard(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to count samples for %s: %w", param, err)
		}
		if total == 0 {
			continue
		}

		// Top quartile by composite quality, minimum one sample.
		take := total / 4
		if take < 1 {
			take = 1
		}

		members, err := c.rdb.ZRevRange(ctx, key, 0, take-1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read top performers for %s: %w", param, err)
		}

		values := make([]float64, 0, len(members))
		for _, member := range members {
			value, err := ParamMemberValue(member)
			if err != nil {
				return nil, fmt.Errorf("failed to decode sample for %s: %w", param, err)
			}
			values = append(values, value)
		}
		if len(values) == 0 {
			continue
		}

		spots = append(spots, SweetSpot{
			Param:      param,
			Median:     median(values),
			Confidence: TierForSamples(int(total)),
			Samples:    int(total),
		})
	}

	return spots, nil
}

// TendencyCounts returns how often each AI tendency was flagged on rejected
// content for the component type. Returns an empty map if none were recorded.
func (c *Client) TendencyCounts(ctx context.Context, componentType string) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, TendencyKey(c.namespace, componentType)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tendency counts: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for tendency, countStr := range raw {
		var count int64
		if _, err := fmt.Sscanf(countStr, "%d", &count); err != nil {
			return nil, fmt.Errorf("invalid tendency count for %q: %w", tendency, err)
		}
		counts[tendency] = count
	}

	return counts, nil
}

// Stats returns the accepted/rejected counters for a component type.
// Returns zero counters if the component has no recorded outcomes.
func (c *Client) Stats(ctx context.Context, componentType string) (Stats, error) {
	raw, err := c.rdb.HGetAll(ctx, StatsKey(c.namespace, componentType)).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read stats: %w", err)
	}

	var stats Stats
	if v, ok := raw["accepted"]; ok {
		if _, err := fmt.Sscanf(v, "%d", &stats.Accepted); err != nil {
			return Stats{}, fmt.Errorf("invalid accepted counter: %w", err)
		}
	}
	if v, ok := raw["rejected"]; ok {
		if _, err := fmt.Sscanf(v, "%d", &stats.Rejected); err != nil {
			return Stats{}, fmt.Errorf("invalid rejected counter: %w", err)
		}
	}

	return stats, nil
}

// Components returns the component types that have recorded outcomes,
// sorted for stable CLI output. Returns an empty slice when nothing has
// been recorded yet.
func (c *Client) Components(ctx context.Context) ([]string, error) {
	components, err := c.rdb.SMembers(ctx, ComponentIndexKey(c.namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read component index: %w", err)
	}
	sort.Strings(components)
	return components, nil
}

// IsNotFound returns true if the error is a Redis "key not found" error
// (redis.Nil). Use this to check if GetOutcome returned "not found".
func IsNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}

// median returns the median of values. The slice is sorted in place.
func median(values []float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}
