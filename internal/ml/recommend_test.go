package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendStrongProfile(t *testing.T) {
	f := FeatureVector{ISI: 0.9, ECR: 0.4, PCS: 0.9, DAS: 0.8, SDR: 0.7, CHS: 0.4}
	rec := Recommend(f, 800, 0)
	require.NotNil(t, rec)

	assert.Contains(t, rec.Positive, "Excellent income stability")
	assert.Contains(t, rec.Positive, "Good expense management")
	assert.Contains(t, rec.Positive, "Healthy business cashflow")
	assert.Equal(t, []string{"Maintain current good practices"}, rec.Improvements)

	assert.Equal(t, "Up to ₹5,00,000", rec.LoanAmount)
	assert.Equal(t, "12-36 months", rec.Tenure)
	assert.Equal(t, "10.0-12.0% per annum", rec.InterestRate)
}

func TestRecommendWeakProfile(t *testing.T) {
	f := FeatureVector{ISI: 0.2, ECR: 0.05, PCS: 0.1, DAS: 0.1, SDR: 0.1, CHS: -0.2}
	rec := Recommend(f, 450, 0)

	assert.Equal(t, []string{"Continue building your financial profile"}, rec.Positive)
	assert.Contains(t, rec.Improvements, "Work on stabilizing income sources")
	assert.Contains(t, rec.Improvements, "Improve business profitability")

	assert.Equal(t, "Up to ₹50,000", rec.LoanAmount)
	assert.Equal(t, "6-12 months", rec.Tenure)
	assert.Equal(t, "18.0-22.0% per annum", rec.InterestRate)
}

func TestRecommendMediumTierTerms(t *testing.T) {
	rec := Recommend(FeatureVector{}, 650, 0)
	assert.Equal(t, "Up to ₹2,00,000", rec.LoanAmount)
	assert.Equal(t, "6-24 months", rec.Tenure)
	assert.Equal(t, "14.0-16.0% per annum", rec.InterestRate)
}

func TestRecommendAnchorsOnBaseRate(t *testing.T) {
	rec := Recommend(FeatureVector{}, 800, 7.0)
	assert.Equal(t, "10.5-12.5% per annum", rec.InterestRate)

	// Non-positive base rate falls back to the static band.
	rec = Recommend(FeatureVector{}, 800, -1)
	assert.Equal(t, "10.0-12.0% per annum", rec.InterestRate)
}

func TestRecommendNeutralCHSNotABusinessStrength(t *testing.T) {
	f := Extract(Profile{MonthlyIncome: 50000, MonthlyExpenses: 20000, BillPaymentStreak: 12})
	require.Equal(t, neutralCHS, f.CHS)

	rec := Recommend(f, 700, 0)
	assert.NotContains(t, rec.Positive, "Healthy business cashflow")
}
