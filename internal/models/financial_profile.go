package models

import "time"

// FinancialProfile is the raw financial-behavior snapshot an assessment is
// computed from.
type FinancialProfile struct {
	ID                    int64     `json:"id"`
	ApplicantID           int64     `json:"applicant_id"`
	MonthlyIncome         float64   `json:"monthly_income"`
	MonthlyExpenses       float64   `json:"monthly_expenses"`
	IncomeStdDev          float64   `json:"income_std_dev"`
	UPITransactionCount   int       `json:"upi_transaction_count"`
	BillPaymentStreak     int       `json:"bill_payment_streak"`
	DigitalActivityMonths int       `json:"digital_activity_months"`
	SavingsAmount         float64   `json:"savings_amount"`
	BusinessRevenue       float64   `json:"business_revenue"`
	BusinessExpenses      float64   `json:"business_expenses"`
	CreatedAt             time.Time `json:"created_at"`
}
