package models

import "time"

// Report is a citizen-submitted flood observation.
type Report struct {
	ID          string        `json:"id"`
	Phone       string        `json:"phone"`
	District    string        `json:"district"`
	State       string        `json:"state"`
	Severity    AlertSeverity `json:"severity"`
	Description string        `json:"description"`
	Lat         float64       `json:"lat"`
	Lon         float64       `json:"lon"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PredictionLog is the persisted record of a successful risk computation.
type PredictionLog struct {
	ID          string
	Lat         float64
	Lon         float64
	DistrictID  string
	Score       float64
	Level       RiskLevel
	Probability float64
	Model       ModelSource
	CreatedAt   time.Time
}
