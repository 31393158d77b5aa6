package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusPending   TripStatus = "pending"
	TripStatusConfirmed TripStatus = "confirmed"
	TripStatusCancelled TripStatus = "cancelled"
	TripStatusEscalated TripStatus = "escalated"
)

// IsTerminal reports whether no further transition is allowed.
func (s TripStatus) IsTerminal() bool {
	switch s {
	case TripStatusConfirmed, TripStatusCancelled, TripStatusEscalated:
		return true
	}
	return false
}

func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusPending, TripStatusConfirmed, TripStatusCancelled, TripStatusEscalated:
		return true
	}
	return false
}

// Signal emitted when a trip crosses into the escalated status.
const SigTripEscalated = "trip:escalated"

// Contact is one emergency contact attached to a trip, in notification order.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// ContactList serializes the ordered contacts as a JSON column.
type ContactList []Contact

func (cl ContactList) Value() (driver.Value, error) {
	if cl == nil {
		return "[]", nil
	}
	b, err := json.Marshal(cl)
	return string(b), err
}

func (cl *ContactList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, cl)
	case string:
		return json.Unmarshal([]byte(v), cl)
	case nil:
		*cl = nil
		return nil
	}
	return fmt.Errorf("unsupported contacts column type %T", value)
}

// Trip is one monitored journey. Status moves pending → confirmed |
// cancelled | escalated and never leaves a terminal status.
type Trip struct {
	ID          string      `gorm:"primaryKey;size:36" json:"id"`
	OwnerUID    string      `gorm:"index" json:"ownerUid"`
	Status      TripStatus  `gorm:"size:16;index" json:"status"`
	StartTime   time.Time   `json:"startTime"`
	ETA         time.Time   `json:"eta"`
	SnoozeCount int         `json:"snoozeCount"`
	Contacts    ContactList `gorm:"type:text" json:"contacts"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (Trip) TableName() string { return "trips" }

func (t *Trip) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TripStatusPending
	}
	return nil
}
