package handlers

import (
	"context"
	"log/slog"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"github.com/gdg-garage/event-signup-bot/internal/store"
)

type RegistrationHandler struct {
	registrations *store.RegistrationStore
	users         *store.UserStore
	logger        *slog.Logger
}

func NewRegistrationHandler(registrations *store.RegistrationStore, users *store.UserStore, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, users: users, logger: logger}
}

type RegistrationListResponse struct {
	Body []models.Registration
}

type UserListResponse struct {
	Body []models.User
}

// HandleList returns every registration, newest first.
func (h *RegistrationHandler) HandleList(ctx context.Context, _ *struct{}) (*RegistrationListResponse, error) {
	regs, err := h.registrations.Recent(ctx, 0)
	if err != nil {
		return nil, storeError(h.logger, "list registrations", err)
	}
	return &RegistrationListResponse{Body: regs}, nil
}

func (h *RegistrationHandler) HandleUsers(ctx context.Context, _ *struct{}) (*UserListResponse, error) {
	users, err := h.users.List(ctx)
	if err != nil {
		return nil, storeError(h.logger, "list users", err)
	}
	return &UserListResponse{Body: users}, nil
}
