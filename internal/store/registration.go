package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"gorm.io/gorm"
)

type RegistrationStore struct {
	db *gorm.DB
}

func NewRegistrationStore(db *gorm.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Create(ctx context.Context, reg *models.Registration) error {
	switch {
	case reg.EventID == "":
		return invalid("event_id")
	case reg.TelegramID == "":
		return invalid("telegram_id")
	case strings.TrimSpace(reg.FirstName) == "":
		return invalid("first_name")
	}
	// Omit the association so a preloaded Event is never written back.
	if err := s.db.WithContext(ctx).Omit("Event").Create(reg).Error; err != nil {
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

// Recent returns registrations newest first with their event preloaded. A
// limit of zero or less returns all of them.
func (s *RegistrationStore) Recent(ctx context.Context, limit int) ([]models.Registration, error) {
	q := s.db.WithContext(ctx).Preload("Event").Order("created_at desc").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var regs []models.Registration
	if err := q.Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return regs, nil
}

func (s *RegistrationStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx, "count registrations", nil)
}

func (s *RegistrationStore) CountPaymentReady(ctx context.Context) (int64, error) {
	return s.count(ctx, "count payment-ready registrations", func(q *gorm.DB) *gorm.DB {
		return q.Where("can_pay = ?", true)
	})
}

func (s *RegistrationStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return s.count(ctx, "count registrations since", func(q *gorm.DB) *gorm.DB {
		return q.Where("created_at >= ?", since)
	})
}

// CountByEvent returns the number of registrations per event ID.
func (s *RegistrationStore) CountByEvent(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		EventID string
		Total   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Registration{}).
		Select("event_id, count(*) as total").
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count registrations by event: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.EventID] = r.Total
	}
	return counts, nil
}

func (s *RegistrationStore) count(ctx context.Context, what string, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Registration{})
	if scope != nil {
		q = scope(q)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	return n, nil
}
