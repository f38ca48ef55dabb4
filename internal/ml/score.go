package ml

import "math"

// RiskTier is the three-level risk category derived from the credit score.
type RiskTier string

const (
	RiskLow    RiskTier = "Low Risk"
	RiskMedium RiskTier = "Medium Risk"
	RiskHigh   RiskTier = "High Risk"
)

// Score range produced by the mapper.
const (
	ScoreFloor   = 300
	ScoreCeiling = 900
)

// Score maps a composite value (or probability) to the 300-900 range.
// The input is clamped to [0,1] here, at the mapping boundary, so raw
// indicators stay unclamped upstream.
func Score(v float64) int {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return int(math.Round(ScoreFloor + v*(ScoreCeiling-ScoreFloor)))
}

// Tier buckets a credit score into its risk category. Boundaries are
// inclusive: 750 is Low, 600 is Medium.
func Tier(score int) RiskTier {
	switch {
	case score >= 750:
		return RiskLow
	case score >= 600:
		return RiskMedium
	default:
		return RiskHigh
	}
}
