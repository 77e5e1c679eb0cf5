package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactMessage struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Email   string `gorm:"size:100;not null" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Message string `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}
