package models

import "time"

// SOS log statuses.
const (
	SosStatusSent   = "sent"
	SosStatusFailed = "failed"
)

// SosLog is the append-only audit record of one dispatch attempt. Every
// attempted recipient gets exactly one entry, success or failure, written
// before the outcome is surfaced to the caller.
type SosLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UID        string    `gorm:"index" json:"uid"`
	ToPhone    string    `json:"toPhone"` // post-normalization destination
	Message    string    `json:"message,omitempty"`
	MessageSID string    `json:"messageSid,omitempty"`
	Status     string    `gorm:"size:16;index" json:"status"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func (SosLog) TableName() string { return "sos_logs" }
