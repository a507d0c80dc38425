package adjust

// tendencyOverrides is the statically declared mapping from an AI tendency
// flagged by the realism oracle to the generation parameter override that
// counters it. Tendencies the table does not know are ignored by the
// adjusters (the recorder still counts them, so they surface in pattern
// statistics and can be added here once a counter-parameter exists).
var tendencyOverrides = map[string]struct {
	Param string
	Value float64
}{
	"hedging":                  {Param: "assertiveness", Value: 0.80},
	"formulaic_transitions":    {Param: "transition_variety", Value: 0.90},
	"buzzword_density":         {Param: "jargon_penalty", Value: 0.70},
	"uniform_sentence_length":  {Param: "burstiness", Value: 0.75},
	"overqualification":        {Param: "qualifier_penalty", Value: 0.60},
	"generic_superlatives":     {Param: "specificity", Value: 0.85},
	"symmetrical_structure":    {Param: "structure_variety", Value: 0.80},
}
