// Package rules holds the stress/fallout rule lookups. Everything here is a
// pure function over campaign or character data; no state, no storage. The
// server serves Config over the campaign rules endpoint and clients use the
// fallout lookups directly.
package rules

// Severity of a fallout result.
type Severity string

const (
	SeverityMinor    Severity = "Minor"
	SeverityModerate Severity = "Moderate"
	SeveritySevere   Severity = "Severe"
)

// StressTracks are the five fixed tracks that feed fallout severity.
var StressTracks = [5]string{"blood", "mind", "silver", "shadow", "reputation"}

// trackCap bounds how much a single track contributes to the fallout total.
const trackCap = 10

// Config selects which optional rules are in play for a campaign.
type Config struct {
	DifficultyDowngrades bool `json:"difficultyDowngrades"`
	FalloutCheckOnStress bool `json:"falloutCheckOnStress"`
	ClearStressOnFallout bool `json:"clearStressOnFallout"`
}

// DefaultConfig is the Core rules selection; everything on.
func DefaultConfig() Config {
	return Config{
		DifficultyDowngrades: true,
		FalloutCheckOnStress: true,
		ClearStressOnFallout: true,
	}
}

// ConfigForData reads the rulesProfile and customRules keys out of a
// campaign's data blob. A nil blob, a missing profile, or any profile other
// than Quickstart/Custom yields the defaults.
func ConfigForData(data map[string]interface{}) Config {
	profile, _ := data["rulesProfile"].(string)
	switch profile {
	case "Quickstart":
		return Config{
			DifficultyDowngrades: true,
			FalloutCheckOnStress: false,
			ClearStressOnFallout: false,
		}
	case "Custom":
		cfg := DefaultConfig()
		custom, _ := data["customRules"].(map[string]interface{})
		if v, ok := custom["difficultyDowngrades"].(bool); ok {
			cfg.DifficultyDowngrades = v
		}
		if v, ok := custom["falloutCheckOnStress"].(bool); ok {
			cfg.FalloutCheckOnStress = v
		}
		if v, ok := custom["clearStressOnFallout"].(bool); ok {
			cfg.ClearStressOnFallout = v
		}
		return cfg
	default:
		return DefaultConfig()
	}
}

// Stress maps track names to their boxes; true marks a filled box.
type Stress map[string][]bool

// TotalForFallout sums filled boxes across the five fixed tracks, capping
// each track's contribution at 10 before summing. Unknown tracks are
// ignored.
func TotalForFallout(stress Stress) int {
	total := 0
	for _, track := range StressTracks {
		filled := 0
		for _, box := range stress[track] {
			if box {
				filled++
			}
		}
		if filled > trackCap {
			filled = trackCap
		}
		total += filled
	}
	return total
}

// SeverityForTotal maps a fallout-check stress total to a severity band.
func SeverityForTotal(total int) Severity {
	switch {
	case total >= 9:
		return SeveritySevere
	case total >= 5:
		return SeverityModerate
	default:
		return SeverityMinor
	}
}

// ClearAmountForSeverity is how many stress boxes clear after fallout.
func ClearAmountForSeverity(severity Severity) int {
	switch severity {
	case SeveritySevere:
		return 7
	case SeverityModerate:
		return 5
	default:
		return 3
	}
}
