package ml

import "fmt"

// Recommendation is the advisory block attached to an assessment:
// per-indicator strengths and improvement areas plus indicative loan terms
// for the risk tier.
type Recommendation struct {
	Positive     []string `json:"positive"`
	Improvements []string `json:"improvements"`
	LoanAmount   string   `json:"loan_amount"`
	InterestRate string   `json:"interest_rate"`
	Tenure       string   `json:"tenure"`
}

// Interest margins over the central-bank repo rate, per tier. The static
// bands below correspond to a repo rate of 6.5%.
var tierMargins = map[RiskTier][2]float64{
	RiskLow:    {3.5, 5.5},
	RiskMedium: {7.5, 9.5},
	RiskHigh:   {11.5, 15.5},
}

// Recommend builds the advisory block for a scored applicant. When a
// positive central-bank base rate is supplied the interest band is anchored
// on it; otherwise the static band for the tier applies.
func Recommend(f FeatureVector, score int, baseRate float64) *Recommendation {
	rec := &Recommendation{}

	if f.ISI >= 0.7 {
		rec.Positive = append(rec.Positive, "Excellent income stability")
	} else if f.ISI < 0.5 {
		rec.Improvements = append(rec.Improvements, "Work on stabilizing income sources")
	}

	if f.ECR >= 0.3 {
		rec.Positive = append(rec.Positive, "Good expense management")
	} else if f.ECR < 0.15 {
		rec.Improvements = append(rec.Improvements, "Reduce monthly expenses to improve savings")
	}

	if f.PCS >= 0.7 {
		rec.Positive = append(rec.Positive, "Consistent bill payment history")
	} else if f.PCS < 0.5 {
		rec.Improvements = append(rec.Improvements, "Maintain regular bill payments for at least 6 months")
	}

	if f.DAS >= 0.5 {
		rec.Positive = append(rec.Positive, "Active digital banking user")
	} else if f.DAS < 0.3 {
		rec.Improvements = append(rec.Improvements, "Increase digital transaction frequency")
	}

	if f.SDR >= 0.5 {
		rec.Positive = append(rec.Positive, "Strong savings discipline")
	} else if f.SDR < 0.25 {
		rec.Improvements = append(rec.Improvements, "Build emergency savings fund (3-6 months expenses)")
	}

	if f.CHS > 0.3 && f.CHS != neutralCHS {
		rec.Positive = append(rec.Positive, "Healthy business cashflow")
	} else if f.CHS < 0 {
		rec.Improvements = append(rec.Improvements, "Improve business profitability")
	}

	if len(rec.Positive) == 0 {
		rec.Positive = []string{"Continue building your financial profile"}
	}
	if len(rec.Improvements) == 0 {
		rec.Improvements = []string{"Maintain current good practices"}
	}

	tier := Tier(score)
	switch tier {
	case RiskLow:
		rec.LoanAmount = "Up to ₹5,00,000"
		rec.Tenure = "12-36 months"
	case RiskMedium:
		rec.LoanAmount = "Up to ₹2,00,000"
		rec.Tenure = "6-24 months"
	default:
		rec.LoanAmount = "Up to ₹50,000"
		rec.Tenure = "6-12 months"
	}

	const staticBaseRate = 6.5
	if baseRate <= 0 {
		baseRate = staticBaseRate
	}
	margin := tierMargins[tier]
	rec.InterestRate = fmt.Sprintf("%.1f-%.1f%% per annum", baseRate+margin[0], baseRate+margin[1])

	return rec
}
