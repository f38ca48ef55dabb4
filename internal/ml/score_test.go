package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEndpoints(t *testing.T) {
	assert.Equal(t, 300, Score(0))
	assert.Equal(t, 900, Score(1))
}

func TestScoreClampsInput(t *testing.T) {
	assert.Equal(t, 300, Score(-0.4))
	assert.Equal(t, 900, Score(1.7))
}

func TestScoreAlwaysInRange(t *testing.T) {
	for v := -1.0; v <= 2.0; v += 0.01 {
		s := Score(v)
		assert.GreaterOrEqual(t, s, ScoreFloor)
		assert.LessOrEqual(t, s, ScoreCeiling)
	}
}

func TestTierBoundaries(t *testing.T) {
	// 0.75 maps to exactly 750, 0.5 to exactly 600.
	assert.Equal(t, 750, Score(0.75))
	assert.Equal(t, RiskLow, Tier(Score(0.75)))

	assert.Equal(t, 600, Score(0.5))
	assert.Equal(t, RiskMedium, Tier(Score(0.5)))

	assert.Equal(t, RiskMedium, Tier(749))
	assert.Equal(t, RiskHigh, Tier(599))
	assert.Equal(t, RiskHigh, Tier(ScoreFloor))
	assert.Equal(t, RiskLow, Tier(ScoreCeiling))
}
