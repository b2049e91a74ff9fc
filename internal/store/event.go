package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"gorm.io/gorm"
)

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *EventStore) Get(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "get event "+id)
	}
	return &event, nil
}

// List returns every event ordered by date ascending.
func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db.WithContext(ctx).Order("date asc").Order("created_at asc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListActive returns active events in creation order, which keeps page
// boundaries stable between renders.
func (s *EventStore) ListActive(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at asc").Order("id asc").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list active events: %w", err)
	}
	return events, nil
}

// Update merges the non-nil fields of patch into the event and returns the
// stored result.
func (s *EventStore) Update(ctx context.Context, id string, patch models.EventPatch) (*models.Event, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return event, nil
	}
	if err := s.db.WithContext(ctx).Model(event).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

// Toggle flips the active flag.
func (s *EventStore) Toggle(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(event).Update("is_active", !event.IsActive).Error; err != nil {
		return nil, fmt.Errorf("toggle event %s: %w", id, err)
	}
	event.IsActive = !event.IsActive
	return event, nil
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete event %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *EventStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *EventStore) CountActive(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("is_active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count active events: %w", err)
	}
	return n, nil
}

func validateEvent(e *models.Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return invalid("title")
	case strings.TrimSpace(e.Description) == "":
		return invalid("description")
	case e.Date.IsZero():
		return invalid("date")
	case strings.TrimSpace(e.Time) == "":
		return invalid("time")
	case strings.TrimSpace(e.Location) == "":
		return invalid("location")
	case e.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	return nil
}

func validatePatch(p models.EventPatch) error {
	for field, v := range map[string]*string{
		"title":       p.Title,
		"description": p.Description,
		"time":        p.Time,
		"location":    p.Location,
	} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return invalid(field)
		}
	}
	if p.Date != nil && p.Date.IsZero() {
		return invalid("date")
	}
	if p.Price != nil && *p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	return nil
}
