package models

import "time"

// RiskDistribution counts assessments per risk tier.
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// RecentAssessment is one row of the dashboard's recent-activity feed.
type RecentAssessment struct {
	ApplicantName  string    `json:"name"`
	CreditScore    int       `json:"score"`
	RiskCategory   string    `json:"risk"`
	AssessmentDate time.Time `json:"date"`
}

// DashboardStats aggregates the portfolio for the analytics dashboard.
type DashboardStats struct {
	Total          int                `json:"total"`
	AvgScore       float64            `json:"avg_score"`
	Risk           RiskDistribution   `json:"risk_distribution"`
	LowRiskPercent float64            `json:"low_risk_percent"`
	ApprovalRate   float64            `json:"approval_rate"`
	Recent         []RecentAssessment `json:"recent"`
}
