package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pagewright/burnish/pkg/patternstore"
)

// FormatTable writes component summaries as a formatted table to the
// provided writer. Returns the number of summaries formatted.
func FormatTable(w io.Writer, summaries []ComponentSummary) int {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No learned patterns yet")
		return 0
	}

	fmt.Fprintf(w, "Learned patterns:\n\n")

	// Print header row
	fmt.Fprintf(w, "%-22s %-8s %-8s %-7s %-34s %s\n",
		"COMPONENT", "ACCEPT", "REJECT", "RATE", "SWEET SPOTS", "TOP TENDENCIES")
	fmt.Fprintf(w, "%-22s %-8s %-8s %-7s %-34s %s\n",
		"----------------------", "--------", "--------", "-------", "----------------------------------", "--------------------")

	for _, s := range summaries {
		fmt.Fprintf(w, "%-22s %-8d %-8d %-7s %-34s %s\n",
			formatComponent(s.ComponentType),
			s.Accepted,
			s.Rejected,
			formatRate(s.Accepted, s.Rejected),
			formatSweetSpots(s.SweetSpots),
			formatTendencies(s.Tendencies),
		)
	}

	// Print count
	countMsg := "component type"
	if len(summaries) != 1 {
		countMsg = "component types"
	}
	fmt.Fprintf(w, "\n%d %s tracked\n", len(summaries), countMsg)

	return len(summaries)
}

// FormatJSONL writes summaries as line-delimited JSON (JSONL) to the
// provided writer, one component type per line.
func FormatJSONL(w io.Writer, summaries []ComponentSummary) error {
	for _, summary := range summaries {
		data, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary to JSON: %w", err)
		}

		if _, err := fmt.Fprintf(w, "%s\n", string(data)); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}

	return nil
}

// formatComponent truncates long component type names for table display.
func formatComponent(componentType string) string {
	if len(componentType) > 22 {
		return componentType[:19] + "..."
	}
	return componentType
}

// formatRate renders the acceptance rate as a percentage, or "-" when no
// outcomes are recorded.
func formatRate(accepted, rejected int64) string {
	total := accepted + rejected
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(accepted)/float64(total)*100)
}

// formatSweetSpots renders up to two sweet spots as param=value(confidence).
func formatSweetSpots(spots []patternstore.SweetSpot) string {
	if len(spots) == 0 {
		return "-"
	}

	shown := spots
	if len(shown) > 2 {
		shown = shown[:2]
	}

	parts := make([]string, 0, len(shown)+1)
	for _, spot := range shown {
		parts = append(parts, fmt.Sprintf("%s=%.2f(%s)", spot.Param, spot.Median, spot.Confidence))
	}
	if len(spots) > 2 {
		parts = append(parts, fmt.Sprintf("+%d more", len(spots)-2))
	}

	return strings.Join(parts, " ")
}

// formatTendencies renders up to three tendencies as name:count.
func formatTendencies(tendencies []TendencyCount) string {
	if len(tendencies) == 0 {
		return "-"
	}

	shown := tendencies
	if len(shown) > 3 {
		shown = shown[:3]
	}

	parts := make([]string, 0, len(shown))
	for _, tc := range shown {
		parts = append(parts, fmt.Sprintf("%s:%d", tc.Tendency, tc.Count))
	}

	return strings.Join(parts, " ")
}
