package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	Title           string    `json:"title" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	Date            time.Time `json:"date" gorm:"not null;index"`
	Time            string    `json:"time" gorm:"not null"` // local wall-clock, e.g. "18:30"
	Location        string    `json:"location" gorm:"not null"`
	Price           float64   `json:"price" gorm:"not null"`
	MaxParticipants *int      `json:"max_participants,omitempty"`
	IsActive        bool      `json:"is_active" gorm:"not null;index"`
	ImageURL        string    `json:"image_url,omitempty"`
	Requirements    string    `json:"requirements,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// EventPatch is a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Time            *string    `json:"time,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	Requirements    *string    `json:"requirements,omitempty"`
}

// Columns returns the column/value map of the fields set in the patch.
func (p EventPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Date != nil {
		cols["date"] = *p.Date
	}
	if p.Time != nil {
		cols["time"] = *p.Time
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.MaxParticipants != nil {
		cols["max_participants"] = *p.MaxParticipants
	}
	if p.IsActive != nil {
		cols["is_active"] = *p.IsActive
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.Requirements != nil {
		cols["requirements"] = *p.Requirements
	}
	return cols
}
