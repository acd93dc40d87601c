package events

import "time"

type SessionCreatedEvent struct {
	SessionID      string    `json:"session_id"`
	ApplicantID    string    `json:"applicant_id"`
	ProductType    string    `json:"product_type"`
	CoverageAmount float64   `json:"coverage_amount"`
	RiskScore      float64   `json:"risk_score"`
	RiskRating     string    `json:"risk_rating"`
	QuoteCount     int       `json:"quote_count"`
	ValidUntil     time.Time `json:"valid_until"`
}

type SessionScoredEvent struct {
	SessionID   string  `json:"session_id"`
	PlanCount   int     `json:"plan_count"`
	TopPlanID   string  `json:"top_plan_id,omitempty"`
	TopScore    float64 `json:"top_score,omitempty"`
	TopCategory string  `json:"top_category,omitempty"`
}
