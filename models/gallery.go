package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GalleryImage struct {
	ID  uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	URL string    `gorm:"not null" json:"url"`
	Alt string    `json:"alt"`

	gorm.Model `json:"-"`
}

func (g *GalleryImage) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return
}

// ServiceImage links an image to a specific service for the per-service
// gallery on the public services page.
type ServiceImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	URL       string    `gorm:"not null" json:"url"`
	Alt       string    `json:"alt"`

	gorm.Model `json:"-"`
}

func (s *ServiceImage) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
