package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Alert is one escalation notification sent to one contact, trackable to
// acknowledgment. acknowledged moves false→true exactly once; repeated
// acknowledgments only re-stamp the timestamp.
type Alert struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	TripID         string     `gorm:"index" json:"tripId"`
	ContactName    string     `json:"contactName"`
	Acknowledged   bool       `json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Alert) TableName() string { return "alerts" }

func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
