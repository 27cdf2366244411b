package models

import "time"

type AlertSeverity string

const (
	AlertSeverityLow      AlertSeverity = "LOW"
	AlertSeverityModerate AlertSeverity = "MODERATE"
	AlertSeverityHigh     AlertSeverity = "HIGH"
	AlertSeveritySevere   AlertSeverity = "SEVERE"
)

// FloodAlert is a human-readable warning derived from weather conditions.
type FloodAlert struct {
	ID             string        `json:"id"`
	Type           string        `json:"type"`
	Severity       AlertSeverity `json:"severity"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
	Lat            float64       `json:"lat"`
	Lon            float64       `json:"lon"`
	Source         string        `json:"source"`
	Timestamp      time.Time     `json:"timestamp"`
}
