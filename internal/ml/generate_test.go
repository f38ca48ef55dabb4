package ml

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := GeneratePopulation(500, 42)
	require.NoError(t, err)
	b, err := GeneratePopulation(500, 42)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := GeneratePopulation(500, 43)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerateRejectsEmptyPopulation(t *testing.T) {
	_, err := GeneratePopulation(0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestGeneratePopulationShape(t *testing.T) {
	samples, err := GeneratePopulation(2000, 7)
	require.NoError(t, err)
	require.Len(t, samples, 2000)

	var positives, business, savers int
	for _, s := range samples {
		p := s.Profile
		require.NoError(t, p.Validate())

		assert.GreaterOrEqual(t, p.MonthlyIncome, 10000.0)
		assert.LessOrEqual(t, p.MonthlyIncome, 100000.0)
		assert.Less(t, p.MonthlyExpenses, p.MonthlyIncome)
		assert.GreaterOrEqual(t, p.BillPaymentStreak, 0)
		assert.LessOrEqual(t, p.BillPaymentStreak, 12)

		if s.Label == 1 {
			positives++
		}
		if p.BusinessRevenue > 0 {
			assert.Less(t, p.BusinessExpenses, p.BusinessRevenue)
			business++
		}
		if p.SavingsAmount > 0 {
			savers++
		}
	}

	// Both classes must be represented, otherwise training is impossible.
	assert.Greater(t, positives, 100)
	assert.Less(t, positives, 1900)

	// Roughly 30% self-employed, 70% with savings.
	assert.InDelta(t, 600, business, 150)
	assert.InDelta(t, 1400, savers, 150)
}

func TestGenerateLabelsAreNoisy(t *testing.T) {
	samples, err := GeneratePopulation(3000, 11)
	require.NoError(t, err)

	// Near the threshold the injected noise must flip some labels relative
	// to a pure composite cut; a deterministic labeling would make the
	// classifier redundant.
	flipped := 0
	for _, s := range samples {
		composite := Composite(s.Features)
		deterministic := 0
		if composite >= 0.5 {
			deterministic = 1
		}
		if s.Label != deterministic {
			flipped++
		}
	}
	assert.Greater(t, flipped, 0)
}
