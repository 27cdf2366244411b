package models

import "time"

type EventType string

const (
	EventRiskUpdate EventType = "risk_update"
	EventNewReport  EventType = "new_report"
)

// Event is the envelope pushed to real-time subscribers. Exactly one of
// Assessment or Report is set, depending on Type. Events are never persisted;
// late joiners see nothing.
type Event struct {
	Type       EventType       `json:"type"`
	DistrictID string          `json:"districtId,omitempty"`
	Assessment *RiskAssessment `json:"assessment,omitempty"`
	Report     *Report         `json:"report,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewRiskUpdateEvent(districtID string, a RiskAssessment) Event {
	return Event{
		Type:       EventRiskUpdate,
		DistrictID: districtID,
		Assessment: &a,
		Timestamp:  time.Now(),
	}
}

func NewReportEvent(r Report) Event {
	return Event{
		Type:      EventNewReport,
		Report:    &r,
		Timestamp: time.Now(),
	}
}
