package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. An appointment is created as "scheduled" by the
// public booking flow and only ever moves forward from there through an
// admin action on the agenda screen.
const (
	StatusScheduled = "scheduled"
	StatusDone      = "done"
	StatusCanceled  = "canceled"
	StatusNoShow    = "no_show"
)

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	// idx_service_slot is a partial unique index over the rows that still
	// occupy their slot, so concurrent inserts for the same slot cannot
	// both commit; canceled and no-show rows leave the index and free the
	// slot for rebooking.
	ServiceID uuid.UUID `gorm:"type:uuid;index:idx_service_slot,unique,priority:1,where:status = 'scheduled' OR status = 'done';not null" json:"serviceId"`
	ClientID  uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`

	Date string `gorm:"type:varchar(10);index:idx_service_slot,priority:2;not null" json:"date"` // YYYY-MM-DD
	Time string `gorm:"type:varchar(5);index:idx_service_slot,priority:3;not null" json:"time"`  // HH:MM

	Status string `gorm:"type:varchar(20);default:'scheduled';not null" json:"status"`
	Notes  string `json:"notes"`

	// Set from the Idempotency-Key header when the booking client sends one,
	// so a replayed create returns the original row instead of a duplicate.
	IdempotencyKey *string `gorm:"uniqueIndex" json:"-"`

	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Client  Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	gorm.Model `json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return
}

// IsValidStatus reports whether s is one of the known appointment statuses.
func IsValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusDone, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the appointment may move to next.
// Only scheduled appointments move, and only to done, canceled or no_show;
// there is no way back to scheduled.
func (a Appointment) CanTransitionTo(next string) bool {
	if a.Status != StatusScheduled {
		return false
	}
	switch next {
	case StatusDone, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// IsActiveBooking reports whether the appointment still occupies its slot.
// Canceled and no-show appointments free the slot for rebooking.
func (a Appointment) IsActiveBooking() bool {
	return a.Status == StatusScheduled || a.Status == StatusDone
}
