package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TestimonialPending   = "pending"
	TestimonialPublished = "published"
)

type Testimonial struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointmentId"`

	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`

	Rating int    `json:"rating"` // 1-5, zero until the client submits
	Text   string `gorm:"type:text" json:"text"`

	Status     string `gorm:"type:varchar(20);default:'pending'" json:"status"`
	UniqueLink string `gorm:"uniqueIndex;not null" json:"uniqueLink"`

	// Set when the client fills the public form; a link can only be
	// submitted once.
	Submitted bool `gorm:"default:false" json:"submitted"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`

	gorm.Model `json:"-"`
}

func (t *Testimonial) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}
