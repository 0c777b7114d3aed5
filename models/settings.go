package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Custom JSONB type for opening hours, social links and page texts
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}

// Settings is a singleton: the public pages read it, only the admin
// writes it. One row is created with defaults on first access.
type Settings struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	OpeningHours JSONB `gorm:"type:jsonb;default:'{}'" json:"openingHours"`
	SocialLinks  JSONB `gorm:"type:jsonb;default:'{}'" json:"socialLinks"`
	Texts        JSONB `gorm:"type:jsonb;default:'{}'" json:"texts"`

	WhatsAppNotifications bool `gorm:"default:false" json:"whatsAppNotifications"`
	SMSNotifications      bool `gorm:"default:false" json:"smsNotifications"`

	gorm.Model `json:"-"`
}

func (s *Settings) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// DefaultOpeningHours is the schedule used until the admin saves one.
func DefaultOpeningHours() JSONB {
	return JSONB{
		"monday":    map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false},
		"tuesday":   map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false},
		"wednesday": map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false},
		"thursday":  map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false},
		"friday":    map[string]interface{}{"open": "09:00", "close": "19:00", "closed": false},
		"saturday":  map[string]interface{}{"open": "09:00", "close": "18:00", "closed": false},
		"sunday":    map[string]interface{}{"open": "10:00", "close": "16:00", "closed": true},
	}
}
