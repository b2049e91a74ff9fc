package models

import (
	"gorm.io/gorm"
)

// User is the registration record of the earlier single-event bot. It is kept
// readable for the admin API and is no longer written by the dialog.
type User struct {
	gorm.Model
	TelegramID       string `json:"telegram_id" gorm:"uniqueIndex;not null"`
	FirstName        string `json:"first_name" gorm:"not null"`
	LastName         string `json:"last_name" gorm:"not null"`
	IsTargetAudience bool   `json:"is_target_audience" gorm:"not null"`
	CanPay           *bool  `json:"can_pay,omitempty"`
}
