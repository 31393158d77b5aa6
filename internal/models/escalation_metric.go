package models

import "time"

// EscalationMetric is the append-only audit record of one escalation event,
// snapshotting the trip at the moment of transition. Written exactly once
// per status edge, never on re-saves of an already-escalated trip.
type EscalationMetric struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TripID       string    `gorm:"index" json:"tripId"`
	EscalatedAt  time.Time `json:"escalatedAt"`
	EtaTime      time.Time `json:"etaTime"`
	SnoozeCount  int       `json:"snoozeCount"`
	ContactCount int       `json:"contactCount"`
}

func (EscalationMetric) TableName() string { return "escalation_metrics" }
