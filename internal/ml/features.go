package ml

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Profile holds the raw financial-behavior inputs for a single applicant.
// Range/type validation of user input is the caller's job; Validate only
// rejects values that make the indicators meaningless.
type Profile struct {
	MonthlyIncome         float64 `json:"monthly_income"`
	MonthlyExpenses       float64 `json:"monthly_expenses"`
	IncomeStdDev          float64 `json:"income_std_dev"`
	UPITransactionCount   int     `json:"upi_transaction_count"`
	BillPaymentStreak     int     `json:"bill_payment_streak"`
	DigitalActivityMonths int     `json:"digital_activity_months"`
	SavingsAmount         float64 `json:"savings_amount"`
	BusinessRevenue       float64 `json:"business_revenue"`
	BusinessExpenses      float64 `json:"business_expenses"`
}

// Validate checks the profile against the input constraints.
func (p Profile) Validate() error {
	switch {
	case p.MonthlyIncome < 0:
		return errors.Wrap(ErrInvalidInput, "monthly_income must not be negative")
	case p.MonthlyExpenses < 0:
		return errors.Wrap(ErrInvalidInput, "monthly_expenses must not be negative")
	case p.IncomeStdDev < 0:
		return errors.Wrap(ErrInvalidInput, "income_std_dev must not be negative")
	case p.UPITransactionCount < 0:
		return errors.Wrap(ErrInvalidInput, "upi_transaction_count must not be negative")
	case p.BillPaymentStreak < 0 || p.BillPaymentStreak > 12:
		return errors.Wrap(ErrInvalidInput, "bill_payment_streak must be between 0 and 12")
	case p.DigitalActivityMonths < 0:
		return errors.Wrap(ErrInvalidInput, "digital_activity_months must not be negative")
	case p.SavingsAmount < 0:
		return errors.Wrap(ErrInvalidInput, "savings_amount must not be negative")
	case p.BusinessRevenue < 0:
		return errors.Wrap(ErrInvalidInput, "business_revenue must not be negative")
	case p.BusinessExpenses < 0:
		return errors.Wrap(ErrInvalidInput, "business_expenses must not be negative")
	}
	return nil
}

// FeatureVector holds the six behavioral indicators derived from a profile.
// ISI and ECR may fall outside [0,1] for volatile or overspending profiles;
// clamping happens at the score-mapping boundary so the raw values stay
// inspectable for reporting.
type FeatureVector struct {
	ISI float64 `json:"ISI"` // income stability index
	ECR float64 `json:"ECR"` // expense control ratio
	PCS float64 `json:"PCS"` // payment consistency score
	DAS float64 `json:"DAS"` // digital activity score
	SDR float64 `json:"SDR"` // savings discipline ratio
	CHS float64 `json:"CHS"` // cashflow health score
}

// FeatureNames lists the indicators in canonical order.
var FeatureNames = []string{"ISI", "ECR", "PCS", "DAS", "SDR", "CHS"}

// Values returns the indicators in canonical order.
func (f FeatureVector) Values() []float64 {
	return []float64{f.ISI, f.ECR, f.PCS, f.DAS, f.SDR, f.CHS}
}

// Fixed indicator weights used by the composite score. These are not the
// learned classifier weights.
const (
	weightISI = 0.25
	weightECR = 0.20
	weightPCS = 0.20
	weightDAS = 0.15
	weightSDR = 0.15
	weightCHS = 0.05
)

// Weights returns the fixed indicator weights keyed by indicator name.
func Weights() map[string]float64 {
	return map[string]float64{
		"ISI": weightISI,
		"ECR": weightECR,
		"PCS": weightPCS,
		"DAS": weightDAS,
		"SDR": weightSDR,
		"CHS": weightCHS,
	}
}

func init() {
	sum := weightISI + weightECR + weightPCS + weightDAS + weightSDR + weightCHS
	if sum != 1.0 {
		panic(fmt.Sprintf("indicator weights must sum to 1.0, got %v", sum))
	}
}

// Extract derives the six indicators from a raw profile. It is total: every
// division is guarded and the guard results are defined fallbacks, never
// errors. A non-business applicant (zero business revenue) gets the neutral
// CHS of 0.5 so the absence of a business neither helps nor hurts.
func Extract(p Profile) FeatureVector {
	var f FeatureVector

	if p.MonthlyIncome > 0 {
		f.ISI = 1 - p.IncomeStdDev/p.MonthlyIncome
		f.ECR = (p.MonthlyIncome - p.MonthlyExpenses) / p.MonthlyIncome
		f.SDR = p.SavingsAmount / (p.MonthlyIncome * 3)
	}

	f.PCS = float64(p.BillPaymentStreak) / 12

	upi := math.Min(float64(p.UPITransactionCount)/30, 1)
	months := math.Min(float64(p.DigitalActivityMonths)/6, 1)
	f.DAS = upi * months

	if p.BusinessRevenue > 0 {
		f.CHS = (p.BusinessRevenue - p.BusinessExpenses) / p.BusinessRevenue
	} else {
		f.CHS = neutralCHS
	}

	return f
}

// neutralCHS is the cashflow score assigned when no business revenue exists.
const neutralCHS = 0.5

// Composite returns the fixed-weight linear combination of the indicators.
// The result is unclamped; Score clamps before mapping.
func Composite(f FeatureVector) float64 {
	return f.ISI*weightISI +
		f.ECR*weightECR +
		f.PCS*weightPCS +
		f.DAS*weightDAS +
		f.SDR*weightSDR +
		f.CHS*weightCHS
}
