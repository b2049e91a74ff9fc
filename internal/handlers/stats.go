package handlers

import (
	"context"
	"log/slog"

	"github.com/gdg-garage/event-signup-bot/internal/store"
)

type StatsHandler struct {
	events        *store.EventStore
	registrations *store.RegistrationStore
	users         *store.UserStore
	logger        *slog.Logger
}

func NewStatsHandler(events *store.EventStore, registrations *store.RegistrationStore, users *store.UserStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{events: events, registrations: registrations, users: users, logger: logger}
}

type StatsResponse struct {
	Body struct {
		Total          int64 `json:"total" doc:"Legacy users"`
		TargetAudience int64 `json:"target_audience" doc:"Legacy users in the target audience"`
		CanPay         int64 `json:"can_pay" doc:"Legacy users ready to pay"`
		Events         struct {
			Total  int64 `json:"total"`
			Active int64 `json:"active"`
		} `json:"events"`
		Registrations struct {
			Total  int64 `json:"total"`
			CanPay int64 `json:"can_pay"`
		} `json:"registrations"`
	}
}

func (h *StatsHandler) HandleStats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	resp := &StatsResponse{}
	b := &resp.Body

	users, err := h.users.Counts(ctx)
	if err != nil {
		return nil, storeError(h.logger, "stats", err)
	}
	b.Total, b.TargetAudience, b.CanPay = users.Total, users.TargetAudience, users.CanPay

	if b.Events.Total, err = h.events.Count(ctx); err != nil {
		return nil, storeError(h.logger, "stats", err)
	}
	if b.Events.Active, err = h.events.CountActive(ctx); err != nil {
		return nil, storeError(h.logger, "stats", err)
	}
	if b.Registrations.Total, err = h.registrations.Count(ctx); err != nil {
		return nil, storeError(h.logger, "stats", err)
	}
	if b.Registrations.CanPay, err = h.registrations.CountPaymentReady(ctx); err != nil {
		return nil, storeError(h.logger, "stats", err)
	}
	return resp, nil
}
