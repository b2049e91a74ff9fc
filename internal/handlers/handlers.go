// Package handlers exposes the Resource API over HTTP.
package handlers

import (
	"errors"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/event-signup-bot/internal/store"
)

// storeError maps a store error onto an API error. Unexpected causes are
// logged and answered with a generic message.
func storeError(logger *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return huma.Error404NotFound("Not found")
	case errors.Is(err, store.ErrInvalid):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		logger.Error("request failed", "op", op, "error", err)
		return huma.Error500InternalServerError("Internal server error")
	}
}
