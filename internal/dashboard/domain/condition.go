package dashboard

import "strings"

// Tier is the display classification of a status label. Rendering color
// palettes live entirely in the presentation layer.
type Tier string

const (
	TierExcellent          Tier = "excellent"
	TierAcceptable         Tier = "acceptable"
	TierRequiresEvaluation Tier = "requires_evaluation"
	TierUnacceptable       Tier = "unacceptable"
	TierNone               Tier = ""
)

// tierLabels fixes the matching order. The order is the contract when labels
// collide as substrings.
var tierLabels = []struct {
	label string
	tier  Tier
}{
	{"excellent", TierExcellent},
	{"acceptable", TierAcceptable},
	{"requires evaluation", TierRequiresEvaluation},
	{"unacceptable", TierUnacceptable},
}

// Classify maps a status label to a display tier, case-insensitively. An
// exact label match wins over containment, so a literal "Unacceptable" is not
// captured by the "acceptable" substring; otherwise the first containing
// label in the fixed order decides. Unknown or empty input is the neutral
// no-styling tier.
func Classify(status string) Tier {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return TierNone
	}
	for _, entry := range tierLabels {
		if normalized == entry.label {
			return entry.tier
		}
	}
	for _, entry := range tierLabels {
		if strings.Contains(normalized, entry.label) {
			return entry.tier
		}
	}
	return TierNone
}
