package models

import "time"

// ConsumptionRecord logs that a dose was taken or deliberately skipped.
type ConsumptionRecord struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medicationId"`
	Timestamp    time.Time `json:"timestamp"`
	Taken        bool      `json:"taken"`
}

// Match is the result of pairing a scheduled occurrence with a logged record.
type Match struct {
	Taken    bool   `json:"taken"`
	RecordID string `json:"recordId"`
}

// DoseStatus is the display status of an occurrence.
type DoseStatus string

const (
	DosePending DoseStatus = "pending"
	DoseTaken   DoseStatus = "taken"
	DoseSkipped DoseStatus = "skipped"
	DoseMissed  DoseStatus = "missed"
)

// StatusOf maps an optional match to a status; unmatched occurrences are pending.
func StatusOf(m *Match) DoseStatus {
	switch {
	case m == nil:
		return DosePending
	case m.Taken:
		return DoseTaken
	default:
		return DoseSkipped
	}
}
