package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"github.com/gdg-garage/event-signup-bot/internal/store"
)

type EventHandler struct {
	events *store.EventStore
	logger *slog.Logger
}

func NewEventHandler(events *store.EventStore, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

type EventListResponse struct {
	Body []models.Event
}

type EventResponse struct {
	Body *models.Event
}

type EventIDInput struct {
	ID string `path:"id" doc:"Event ID"`
}

type CreateEventRequest struct {
	Body struct {
		Title           string    `json:"title" minLength:"1"`
		Description     string    `json:"description" minLength:"1"`
		Date            time.Time `json:"date" doc:"Event day"`
		Time            string    `json:"time" minLength:"1" doc:"Start time, e.g. 18:30"`
		Location        string    `json:"location" minLength:"1"`
		Price           float64   `json:"price" minimum:"0"`
		MaxParticipants *int      `json:"max_participants,omitempty" minimum:"1"`
		IsActive        *bool     `json:"is_active,omitempty" doc:"Defaults to true"`
		ImageURL        string    `json:"image_url,omitempty"`
		Requirements    string    `json:"requirements,omitempty"`
	}
}

type UpdateEventRequest struct {
	ID   string `path:"id" doc:"Event ID"`
	Body models.EventPatch
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *EventHandler) HandleList(ctx context.Context, _ *struct{}) (*EventListResponse, error) {
	events, err := h.events.List(ctx)
	if err != nil {
		return nil, storeError(h.logger, "list events", err)
	}
	return &EventListResponse{Body: events}, nil
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventRequest) (*EventResponse, error) {
	active := true
	if input.Body.IsActive != nil {
		active = *input.Body.IsActive
	}
	event := &models.Event{
		Title:           input.Body.Title,
		Description:     input.Body.Description,
		Date:            input.Body.Date,
		Time:            input.Body.Time,
		Location:        input.Body.Location,
		Price:           input.Body.Price,
		MaxParticipants: input.Body.MaxParticipants,
		IsActive:        active,
		ImageURL:        input.Body.ImageURL,
		Requirements:    input.Body.Requirements,
	}
	if err := h.events.Create(ctx, event); err != nil {
		return nil, storeError(h.logger, "create event", err)
	}
	h.logger.Info("event created", "event_id", event.ID)
	return &EventResponse{Body: event}, nil
}

func (h *EventHandler) HandleUpdate(ctx context.Context, input *UpdateEventRequest) (*EventResponse, error) {
	event, err := h.events.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, storeError(h.logger, "update event", err)
	}
	return &EventResponse{Body: event}, nil
}

func (h *EventHandler) HandleToggle(ctx context.Context, input *EventIDInput) (*EventResponse, error) {
	event, err := h.events.Toggle(ctx, input.ID)
	if err != nil {
		return nil, storeError(h.logger, "toggle event", err)
	}
	h.logger.Info("event toggled", "event_id", event.ID, "is_active", event.IsActive)
	return &EventResponse{Body: event}, nil
}

// HandleDelete removes the event. Its registrations are kept and read back
// with a null event.
func (h *EventHandler) HandleDelete(ctx context.Context, input *EventIDInput) (*MessageResponse, error) {
	if err := h.events.Delete(ctx, input.ID); err != nil {
		return nil, storeError(h.logger, "delete event", err)
	}
	h.logger.Info("event deleted", "event_id", input.ID)
	resp := &MessageResponse{}
	resp.Body.Message = "Event deleted"
	return resp, nil
}
