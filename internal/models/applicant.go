package models

import "time"

// Applicant is a loan applicant assessed by the system.
type Applicant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	PANCard   string    `json:"pan_card,omitempty"` // masked for responses, encrypted at rest
	CreatedAt time.Time `json:"created_at"`
}
