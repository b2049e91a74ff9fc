package store

import (
	"context"
	"fmt"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"gorm.io/gorm"
)

// UserStore reads the legacy user collection.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UserCounts holds the legacy aggregate counters.
type UserCounts struct {
	Total          int64
	TargetAudience int64
	CanPay         int64
}

func (s *UserStore) Counts(ctx context.Context) (UserCounts, error) {
	var c UserCounts
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&c.Total).Error; err != nil {
		return c, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&models.User{}).Where("is_target_audience = ?", true).Count(&c.TargetAudience).Error; err != nil {
		return c, fmt.Errorf("count target audience users: %w", err)
	}
	if err := db.Model(&models.User{}).Where("can_pay = ?", true).Count(&c.CanPay).Error; err != nil {
		return c, fmt.Errorf("count paying users: %w", err)
	}
	return c, nil
}
