package models

import "time"

const (
	ContentHome          = "home"
	ContentContact       = "contact"
	ContentHealthRecords = "health-records"
)

// ContentDocument holds one page's editable copy as a JSON body.
type ContentDocument struct {
	Key       string    `gorm:"primaryKey;size:50" json:"key"`
	Body      string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type HomeContent struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Features    []Feature `json:"features"`
}

type ContactContent struct {
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Hours      string `json:"hours"`
	ChatWidget string `json:"chat_widget,omitempty"`
}

type HealthRecordsContent struct {
	UploadInstructions string `json:"upload_instructions"`
	PolicyContent      string `json:"policy_content"`
}
