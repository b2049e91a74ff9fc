package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration is one user's declared participation in an event. It references
// the event by ID only; Event is populated on reads that preload it and stays
// nil when the event has since been deleted.
type Registration struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	EventID    string    `json:"event_id" gorm:"not null;index;size:36"`
	Event      *Event    `json:"event" gorm:"foreignKey:EventID"`
	TelegramID string    `json:"telegram_id" gorm:"not null;index"`
	FirstName  string    `json:"first_name" gorm:"not null"`
	LastName   string    `json:"last_name" gorm:"not null"`
	CanPay     *bool     `json:"can_pay,omitempty"`
	CreatedAt  time.Time `json:"registered_at" gorm:"index"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// PaymentReady reports whether the registrant stated they will bring payment.
func (r Registration) PaymentReady() bool {
	return r.CanPay != nil && *r.CanPay
}
