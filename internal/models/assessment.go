package models

import "time"

// Assessment statuses.
const (
	StatusPendingReview = "Pending Review"
	StatusApproved      = "Approved"
	StatusRejected      = "Rejected"
)

// CreditAssessment is one stored scoring decision for an applicant.
type CreditAssessment struct {
	ID                   int64     `json:"id"`
	ApplicantID          int64     `json:"applicant_id"`
	ProfileID            int64     `json:"profile_id"`
	CreditScore          int       `json:"credit_score"`
	RiskCategory         string    `json:"risk_category"`
	RepaymentProbability float64   `json:"repayment_probability"`
	FeaturesJSON         string    `json:"-"` // serialized indicator breakdown
	ProcessedBy          int64     `json:"processed_by"`
	Status               string    `json:"status"`
	AssessmentDate       time.Time `json:"assessment_date"`
}

// AssessmentSummary is the list-view projection of an assessment.
type AssessmentSummary struct {
	ID             int64     `json:"id"`
	ApplicantName  string    `json:"applicant_name"`
	CreditScore    int       `json:"credit_score"`
	RiskCategory   string    `json:"risk_category"`
	MonthlyIncome  float64   `json:"monthly_income"`
	ProcessorName  string    `json:"processor_name"`
	AssessmentDate time.Time `json:"assessment_date"`
}
