package models

import (
	"time"

	"gorm.io/gorm"
)

type Doctor struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100;not null" json:"specialty"`
	Bio       string `gorm:"type:text" json:"bio"`
	Image     string `gorm:"size:500" json:"image"`

	// Availability is informational copy ("Monday", "Wednesday"); slots come from the booking grid.
	Availability []string `gorm:"serializer:json;type:text" json:"availability"`
	Rating       float64  `json:"rating"`
	Location     string   `gorm:"size:255" json:"location"`

	ConsultationFee float64 `gorm:"default:0" json:"consultation_fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}
