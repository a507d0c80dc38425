package patternstore

import "fmt"

// Redis key pattern helpers
//
// All keys are namespaced by deployment name so multiple Burnish deployments
// can safely share a Redis server.
//
// Key pattern: burnish:{namespace}:{entity}[:{qualifier}]

// OutcomeKey returns the Redis key for a recorded outcome.
// Pattern: burnish:{namespace}:outcome:{outcome_id}
func OutcomeKey(namespace, outcomeID string) string {
	return fmt.Sprintf("burnish:%s:outcome:%s", namespace, outcomeID)
}

// ParamKey returns the Redis key for a parameter's accepted-value ZSET.
// Members are "{value}|{outcome_id}" scored by composite quality, so the
// top-quartile historical performers are one ZREVRANGE away.
// Pattern: burnish:{namespace}:param:{component_type}:{param}
func ParamKey(namespace, componentType, param string) string {
	return fmt.Sprintf("burnish:%s:param:%s:%s", namespace, componentType, param)
}

// ParamIndexKey returns the Redis key for the SET of parameter names seen for
// a component type. Maintained by the recorder so sweet-spot queries know
// which parameter ZSETs exist.
// Pattern: burnish:{namespace}:params:{component_type}
func ParamIndexKey(namespace, componentType string) string {
	return fmt.Sprintf("burnish:%s:params:%s", namespace, componentType)
}

// StatsKey returns the Redis key for a component's accepted/rejected counters.
// Pattern: burnish:{namespace}:stats:{component_type}
func StatsKey(namespace, componentType string) string {
	return fmt.Sprintf("burnish:%s:stats:%s", namespace, componentType)
}

// TendencyKey returns the Redis key for a component's AI-tendency counters.
// Fields are tendency names, values are how often the realism oracle flagged
// them on rejected content.
// Pattern: burnish:{namespace}:tendency:{component_type}
func TendencyKey(namespace, componentType string) string {
	return fmt.Sprintf("burnish:%s:tendency:%s", namespace, componentType)
}

// ComponentIndexKey returns the Redis key for the SET of component types that
// have recorded outcomes. Used by the CLI to enumerate learned patterns.
// Pattern: burnish:{namespace}:components
func ComponentIndexKey(namespace string) string {
	return fmt.Sprintf("burnish:%s:components", namespace)
}
