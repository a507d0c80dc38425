package patternstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Serialization helpers for converting between Go structs and Redis hashes
//
// Redis stores data as string-to-string maps (hashes). Complex fields like
// maps and arrays are JSON-encoded into single hash fields. This provides a
// balance between queryability (individual fields) and flexibility (complex
// structures).

// OutcomeToHash converts an OutcomeRecord to a Redis hash format.
// Map and array fields (params, ai_tendencies) are JSON-encoded.
func OutcomeToHash(o *OutcomeRecord) (map[string]interface{}, error) {
	paramsJSON, err := json.Marshal(o.Params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal params: %w", err)
	}

	tendenciesJSON, err := json.Marshal(o.AITendencies)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ai_tendencies: %w", err)
	}

	hash := map[string]interface{}{
		"id":             o.ID,
		"subject":        o.Subject,
		"component_type": o.ComponentType,
		"accepted":       strconv.FormatBool(o.Accepted),
		"params":         string(paramsJSON),
		"authenticity":   o.Authenticity,
		"realism":        o.Realism,
		"composite":      o.Composite,
		"ai_tendencies":  string(tendenciesJSON),
		"fingerprint":    o.Fingerprint,
		"created_at_ms":  o.CreatedAtMs,
	}

	return hash, nil
}

// HashToOutcome converts a Redis hash to an OutcomeRecord.
// JSON fields are decoded back to Go types.
func HashToOutcome(hash map[string]string) (*OutcomeRecord, error) {
	accepted, err := strconv.ParseBool(hash["accepted"])
	if err != nil {
		return nil, fmt.Errorf("invalid accepted field: %w", err)
	}

	authenticity, err := strconv.ParseFloat(hash["authenticity"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid authenticity field: %w", err)
	}

	realism, err := strconv.ParseFloat(hash["realism"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid realism field: %w", err)
	}

	composite, err := strconv.ParseFloat(hash["composite"], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid composite field: %w", err)
	}

	var params map[string]float64
	if paramsJSON := hash["params"]; paramsJSON != "" {
		if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal params: %w", err)
		}
	}
	if params == nil {
		params = map[string]float64{}
	}

	var tendencies []string
	if tendenciesJSON := hash["ai_tendencies"]; tendenciesJSON != "" {
		if err := json.Unmarshal([]byte(tendenciesJSON), &tendencies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ai_tendencies: %w", err)
		}
	}
	if tendencies == nil {
		tendencies = []string{}
	}

	createdAtMs, _ := strconv.ParseInt(hash["created_at_ms"], 10, 64)

	outcome := &OutcomeRecord{
		ID:            hash["id"],
		Subject:       hash["subject"],
		ComponentType: hash["component_type"],
		Accepted:      accepted,
		Params:        params,
		Authenticity:  authenticity,
		Realism:       realism,
		Composite:     composite,
		AITendencies:  tendencies,
		Fingerprint:   hash["fingerprint"],
		CreatedAtMs:   createdAtMs,
	}

	return outcome, nil
}

// ParamMember encodes one accepted parameter value as a ZSET member:
// "{value}|{outcome_id}". The outcome ID suffix keeps members unique so two
// outcomes with the same parameter value never collapse into one entry.
func ParamMember(value float64, outcomeID string) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "|" + outcomeID
}

// ParamMemberValue decodes the parameter value from a ZSET member.
func ParamMemberValue(member string) (float64, error) {
	idx := strings.IndexByte(member, '|')
	if idx < 0 {
		return 0, fmt.Errorf("malformed param member %q: missing separator", member)
	}

	value, err := strconv.ParseFloat(member[:idx], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed param member %q: %w", member, err)
	}

	return value, nil
}
