package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gdg-garage/event-signup-bot/internal/store"
	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

// QRCodeHandler serves a PNG that opens the bot with the event preselected.
type QRCodeHandler struct {
	events      *store.EventStore
	botUsername string
	logger      *slog.Logger
}

func NewQRCodeHandler(events *store.EventStore, botUsername string, logger *slog.Logger) *QRCodeHandler {
	return &QRCodeHandler{events: events, botUsername: botUsername, logger: logger}
}

// DeepLink is the t.me link that starts the dialog for eventID.
func DeepLink(botUsername, eventID string) string {
	return fmt.Sprintf("https://t.me/%s?start=event_%s", botUsername, eventID)
}

func (h *QRCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.botUsername == "" {
		http.Error(w, "Bot username is not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "id")
	event, err := h.events.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load event for qr code", "event_id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(DeepLink(h.botUsername, event.ID), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.Error("failed to encode qr code", "event_id", id, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "event-"+event.ID+".png"))
	w.Write(png)
}
