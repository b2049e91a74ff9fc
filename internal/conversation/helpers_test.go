package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/database"
	"github.com/gdg-garage/event-signup-bot/internal/models"
	"github.com/gdg-garage/event-signup-bot/internal/session"
	"github.com/gdg-garage/event-signup-bot/internal/store"
	"github.com/stretchr/testify/require"
)

var testChat = Chat{ID: 100, Identity: "42"}

var errStoreDown = errors.New("store unavailable")

type recordingSender struct {
	mu       sync.Mutex
	messages []Message
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) last(t *testing.T) Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages, "expected at least one message")
	return s.messages[len(s.messages)-1]
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

type staticVerifier struct {
	login, password string
}

func (v staticVerifier) Verify(login, password string) bool {
	return login == v.login && password == v.password
}

type recordingNotifier struct {
	registrations []models.Registration
}

func (n *recordingNotifier) NotifyRegistration(reg models.Registration, _ models.Event) error {
	n.registrations = append(n.registrations, reg)
	return nil
}

type failingRegistrations struct {
	*store.RegistrationStore
}

func (failingRegistrations) Create(context.Context, *models.Registration) error {
	return errStoreDown
}

type failingEvents struct {
	*store.EventStore
}

func (failingEvents) List(context.Context) ([]models.Event, error) {
	return nil, errStoreDown
}

type harness struct {
	engine   *Engine
	sender   *recordingSender
	notifier *recordingNotifier
	sessions *session.Store
	events   *store.EventStore
	regs     *store.RegistrationStore
	now      time.Time
}

type harnessOption func(*Config)

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)

	h := &harness{
		sender:   &recordingSender{},
		notifier: &recordingNotifier{},
		sessions: session.NewStore(0),
		events:   store.NewEventStore(db),
		regs:     store.NewRegistrationStore(db),
		now:      time.Date(2026, 10, 16, 15, 0, 0, 0, time.Local),
	}
	cfg := Config{
		Events:        h.events,
		Registrations: h.regs,
		Sessions:      h.sessions,
		Admin:         staticVerifier{login: "admin", password: "secret"},
		Sender:        h.sender,
		Notifier:      h.notifier,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Currency:      "so'm",
		Now:           func() time.Time { return h.now },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	h.engine = NewEngine(cfg)
	return h
}

// seedEvents creates n events titled "Event 1".."Event n" in that creation order.
func (h *harness) seedEvents(t *testing.T, n int, active bool) []models.Event {
	t.Helper()
	base := time.Date(2026, 10, 1, 10, 0, 0, 0, time.Local)
	out := make([]models.Event, 0, n)
	for i := 1; i <= n; i++ {
		ev := &models.Event{
			Title:       fmt.Sprintf("Event %d", i),
			Description: "Description",
			Date:        time.Date(2026, 11, i, 0, 0, 0, 0, time.UTC),
			Time:        "18:00",
			Location:    "IT Park",
			Price:       15000,
			IsActive:    active,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, h.events.Create(context.Background(), ev))
		out = append(out, *ev)
	}
	return out
}

func (h *harness) state(t *testing.T) session.State {
	t.Helper()
	st, ok := h.sessions.Get(testChat.Identity)
	require.True(t, ok, "expected a session")
	return st
}

func (h *harness) hasSession() bool {
	_, ok := h.sessions.Get(testChat.Identity)
	return ok
}

// loginAdmin passes the chat admin login for chat.
func (h *harness) loginAdmin(t *testing.T, chat Chat) {
	t.Helper()
	ctx := context.Background()
	h.engine.HandleCommand(ctx, chat, "admin", "")
	h.engine.HandleText(ctx, chat, "admin")
	h.engine.HandleText(ctx, chat, "secret")
	require.True(t, strings.HasPrefix(h.sender.last(t).Text, "🔐 *Admin Panel*"), "admin login failed")
}
