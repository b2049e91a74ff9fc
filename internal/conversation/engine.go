// Package conversation drives the registration dialog and the chat admin
// console. It sees typed inbound updates and emits Messages through a Sender;
// decoding and rendering for a concrete chat platform happen elsewhere.
package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/models"
	"github.com/gdg-garage/event-signup-bot/internal/pagination"
	"github.com/gdg-garage/event-signup-bot/internal/session"
	"github.com/gdg-garage/event-signup-bot/internal/store"
)

// PageSize is the number of events shown per page.
const PageSize = 3

const deepLinkPrefix = "event_"

// AdminSessionTTL is how long a successful admin login unlocks the console
// buttons when Config.AdminSessions is not set.
const AdminSessionTTL = 30 * time.Minute

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	Get(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListActive(ctx context.Context) ([]models.Event, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	Recent(ctx context.Context, limit int) ([]models.Registration, error)
	Count(ctx context.Context) (int64, error)
	CountPaymentReady(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByEvent(ctx context.Context) (map[string]int64, error)
}

// CredentialVerifier checks the admin login and password.
type CredentialVerifier interface {
	Verify(login, password string) bool
}

// Notifier is told about every completed registration.
type Notifier interface {
	NotifyRegistration(reg models.Registration, event models.Event) error
}

type Config struct {
	Events        EventStore
	Registrations RegistrationStore
	Sessions      *session.Store
	AdminSessions *session.Store // optional, holds logged-in admin identities
	Admin         CredentialVerifier
	Sender        Sender
	Notifier      Notifier // optional
	Logger        *slog.Logger
	Currency      string
	Now           func() time.Time // optional, defaults to time.Now
}

type Engine struct {
	events        EventStore
	registrations RegistrationStore
	sessions      *session.Store
	admins        *session.Store
	admin         CredentialVerifier
	sender        Sender
	notifier      Notifier
	console       *Console
	logger        *slog.Logger
	currency      string
}

func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	admins := cfg.AdminSessions
	if admins == nil {
		admins = session.NewStore(AdminSessionTTL)
	}
	return &Engine{
		events:        cfg.Events,
		registrations: cfg.Registrations,
		sessions:      cfg.Sessions,
		admins:        admins,
		admin:         cfg.Admin,
		sender:        cfg.Sender,
		notifier:      cfg.Notifier,
		console:       NewConsole(cfg.Events, cfg.Registrations, cfg.Now),
		logger:        logger,
		currency:      cfg.Currency,
	}
}

// HandleCommand handles a slash command such as /start.
func (e *Engine) HandleCommand(ctx context.Context, chat Chat, command, args string) {
	switch command {
	case "start":
		e.start(ctx, chat, strings.TrimSpace(args))
	case "admin":
		e.sessions.Put(chat.Identity, session.AwaitingAdminLogin{})
		e.send(ctx, Message{ChatID: chat.ID, Text: textAdminLogin, Markdown: true})
	case "stats", "events", "registrations", "create_event":
		e.send(ctx, Message{ChatID: chat.ID, Text: textAdminOnly})
	case "help":
		e.send(ctx, Message{ChatID: chat.ID, Text: textHelp})
	}
}

// HandleText handles a plain text message. Text from an identity without a
// session is ignored.
func (e *Engine) HandleText(ctx context.Context, chat Chat, text string) {
	state, ok := e.sessions.Get(chat.Identity)
	if !ok {
		return
	}

	switch st := state.(type) {
	case session.AwaitingName:
		e.acceptName(ctx, chat, st, text)
	case session.AwaitingAdminLogin:
		e.sessions.Put(chat.Identity, session.AwaitingAdminPassword{Login: text})
		e.send(ctx, Message{ChatID: chat.ID, Text: textAdminPassword})
	case session.AwaitingAdminPassword:
		e.sessions.Delete(chat.Identity)
		if !e.admin.Verify(st.Login, text) {
			e.logger.Warn("admin login failed", "identity", chat.Identity)
			e.admins.Delete(chat.Identity)
			e.send(ctx, Message{ChatID: chat.ID, Text: textAdminFailed})
			return
		}
		e.logger.Info("admin logged in", "identity", chat.Identity)
		e.admins.Put(chat.Identity, session.AdminAuthenticated{})
		e.showPanel(ctx, chat)
	case session.AwaitingEventDraft:
		if !e.isAdmin(chat) {
			e.sessions.Delete(chat.Identity)
			e.send(ctx, Message{ChatID: chat.ID, Text: textAdminOnly})
			return
		}
		e.createEventFromDraft(ctx, chat, text)
	}
}

// HandleSelection handles a keyboard button press and returns a short text
// to acknowledge it with, which may be empty.
func (e *Engine) HandleSelection(ctx context.Context, chat Chat, sel Selection) string {
	switch s := sel.(type) {
	case PageSelection:
		return e.changePage(ctx, chat, s.Page)
	case PageInfoSelection:
		return ackPageInfo
	case EventSelection:
		return e.selectEvent(ctx, chat, s.EventID)
	case PaymentSelection:
		return e.complete(ctx, chat, s)
	case AdminSelection:
		e.adminAction(ctx, chat, s.Action)
	}
	return ""
}

func (e *Engine) start(ctx context.Context, chat Chat, args string) {
	active, err := e.events.ListActive(ctx)
	if err != nil {
		e.logger.Error("failed to list active events", "identity", chat.Identity, "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: textError})
		return
	}
	if len(active) == 0 {
		e.send(ctx, Message{ChatID: chat.ID, Text: textNoActiveEvents})
		return
	}

	var preselected string
	if strings.HasPrefix(args, deepLinkPrefix) {
		preselected = strings.TrimPrefix(args, deepLinkPrefix)
	}
	e.sessions.Put(chat.Identity, session.AwaitingName{EventID: preselected})
	e.send(ctx, Message{ChatID: chat.ID, Text: textGreeting})
}

func (e *Engine) acceptName(ctx context.Context, chat Chat, st session.AwaitingName, fullName string) {
	if st.EventID != "" {
		ev, err := e.events.Get(ctx, st.EventID)
		if err == nil && ev.IsActive {
			e.sessions.Put(chat.Identity, session.AwaitingPaymentIntent{FullName: fullName, EventID: ev.ID})
			e.showEvent(ctx, chat, ev)
			return
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			e.logger.Error("failed to load deep-linked event", "event_id", st.EventID, "error", err)
		}
	}

	e.sessions.Put(chat.Identity, session.AwaitingEventSelection{FullName: fullName, Page: 0})
	e.showPage(ctx, chat, fullName, 0)
}

func (e *Engine) changePage(ctx context.Context, chat Chat, page int) string {
	state, ok := e.sessions.Get(chat.Identity)
	if !ok {
		return ""
	}
	var fullName string
	switch st := state.(type) {
	case session.AwaitingEventSelection:
		fullName = st.FullName
		e.sessions.Put(chat.Identity, session.AwaitingEventSelection{FullName: st.FullName, Page: page})
	case session.AwaitingPaymentIntent:
		fullName = st.FullName
	default:
		return ""
	}
	e.showPage(ctx, chat, fullName, page)
	return ""
}

// showPage renders one page of active events. Events are fetched fresh on
// every render.
func (e *Engine) showPage(ctx context.Context, chat Chat, fullName string, page int) {
	active, err := e.events.ListActive(ctx)
	if err != nil {
		e.logger.Error("failed to list active events", "identity", chat.Identity, "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: textError})
		return
	}
	if len(active) == 0 {
		e.send(ctx, Message{ChatID: chat.ID, Text: textNoActiveEvents})
		return
	}

	items, total := pagination.Page(active, PageSize, page)
	if len(items) == 0 {
		e.send(ctx, Message{ChatID: chat.ID, Text: textNoEventsOnPage})
		return
	}

	name := fullName
	if name == "" {
		name = "Guest"
	}
	e.send(ctx, Message{
		ChatID:   chat.ID,
		Text:     name + ", which event would you like to attend?",
		Keyboard: e.pageKeyboard(items, page, total),
	})
}

func (e *Engine) selectEvent(ctx context.Context, chat Chat, eventID string) string {
	state, ok := e.sessions.Get(chat.Identity)
	if !ok {
		return ""
	}
	var fullName string
	switch st := state.(type) {
	case session.AwaitingEventSelection:
		fullName = st.FullName
	case session.AwaitingPaymentIntent:
		fullName = st.FullName
	default:
		return ""
	}

	ev, err := e.events.Get(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !ev.IsActive) {
		return ackEventNotFound
	}
	if err != nil {
		e.logger.Error("failed to load event", "event_id", eventID, "error", err)
		return ackError
	}

	e.sessions.Put(chat.Identity, session.AwaitingPaymentIntent{FullName: fullName, EventID: ev.ID})
	e.showEvent(ctx, chat, ev)
	return ""
}

func (e *Engine) showEvent(ctx context.Context, chat Chat, ev *models.Event) {
	e.send(ctx, Message{
		ChatID:   chat.ID,
		Text:     e.eventCard(ev),
		Markdown: true,
		Keyboard: paymentKeyboard(ev.ID),
	})
}

// complete records the registration for a payment answer. The event is the
// one the pressed button was issued for; the name comes from the session.
//
// Failure policy: without a payment session nothing is recorded or cleared.
// A vanished or deactivated event clears the session since retrying cannot
// succeed. A store failure keeps the session so the user can press the button
// again.
func (e *Engine) complete(ctx context.Context, chat Chat, answer PaymentSelection) string {
	state, ok := e.sessions.Get(chat.Identity)
	st, isPayment := state.(session.AwaitingPaymentIntent)
	if !ok || !isPayment {
		e.send(ctx, Message{ChatID: chat.ID, Text: textRestart})
		return ackError
	}

	ev, err := e.events.Get(ctx, answer.EventID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !ev.IsActive) {
		e.sessions.Delete(chat.Identity)
		e.send(ctx, Message{ChatID: chat.ID, Text: textEventGone})
		return ackError
	}
	if err != nil {
		e.logger.Error("failed to load event", "event_id", answer.EventID, "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: textError})
		return ackError
	}

	first, last := SplitName(st.FullName)
	canPay := answer.CanPay
	reg := models.Registration{
		EventID:    ev.ID,
		TelegramID: chat.Identity,
		FirstName:  first,
		LastName:   last,
		CanPay:     &canPay,
	}
	if err := e.registrations.Create(ctx, &reg); err != nil {
		e.logger.Error("failed to save registration", "identity", chat.Identity, "event_id", ev.ID, "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: textError})
		return ackError
	}
	e.logger.Info("registration created", "registration_id", reg.ID, "event_id", ev.ID, "can_pay", canPay)

	e.send(ctx, Message{ChatID: chat.ID, Text: e.confirmation(ev, canPay)})
	e.sessions.Delete(chat.Identity)

	if e.notifier != nil {
		if err := e.notifier.NotifyRegistration(reg, *ev); err != nil {
			e.logger.Warn("failed to send registration notification", "registration_id", reg.ID, "error", err)
		}
	}
	return ""
}

func (e *Engine) showPanel(ctx context.Context, chat Chat) {
	stats, err := e.console.Stats(ctx)
	if err != nil {
		e.logger.Error("failed to load admin panel", "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: "❌ Failed to load the admin panel"})
		return
	}
	e.send(ctx, Message{ChatID: chat.ID, Text: renderPanel(stats), Markdown: true, Keyboard: adminKeyboard()})
}

func (e *Engine) isAdmin(chat Chat) bool {
	_, ok := e.admins.Get(chat.Identity)
	return ok
}

func (e *Engine) adminAction(ctx context.Context, chat Chat, action AdminAction) {
	if !e.isAdmin(chat) {
		e.logger.Warn("admin action without login", "identity", chat.Identity, "action", action)
		e.send(ctx, Message{ChatID: chat.ID, Text: textAdminOnly})
		return
	}
	switch action {
	case AdminStats:
		stats, err := e.console.Stats(ctx)
		if err != nil {
			e.adminFailure(ctx, chat, "statistics", err)
			return
		}
		e.send(ctx, Message{ChatID: chat.ID, Text: renderStats(stats), Markdown: true})
	case AdminEvents:
		events, err := e.console.Events(ctx)
		if err != nil {
			e.adminFailure(ctx, chat, "events", err)
			return
		}
		e.send(ctx, Message{ChatID: chat.ID, Text: e.renderEvents(events), Markdown: true})
	case AdminRegistrations:
		regs, err := e.console.Registrations(ctx)
		if err != nil {
			e.adminFailure(ctx, chat, "registrations", err)
			return
		}
		e.send(ctx, Message{ChatID: chat.ID, Text: e.renderRegistrations(regs), Markdown: true})
	case AdminCreateEvent:
		e.sessions.Put(chat.Identity, session.AwaitingEventDraft{})
		e.send(ctx, Message{ChatID: chat.ID, Text: draftFormat})
	}
}

func (e *Engine) adminFailure(ctx context.Context, chat Chat, view string, err error) {
	e.logger.Error("admin view failed", "view", view, "error", err)
	e.send(ctx, Message{ChatID: chat.ID, Text: "❌ Failed to load " + view})
}

func (e *Engine) createEventFromDraft(ctx context.Context, chat Chat, text string) {
	e.sessions.Delete(chat.Identity)

	ev, err := ParseEventDraft(text)
	if err != nil {
		e.send(ctx, Message{ChatID: chat.ID, Text: "❌ Could not read the event: " + err.Error() + "\n\n" + draftFormat})
		return
	}
	if err := e.events.Create(ctx, ev); err != nil {
		e.logger.Error("failed to create event", "error", err)
		e.send(ctx, Message{ChatID: chat.ID, Text: textError})
		return
	}
	e.logger.Info("event created from chat", "event_id", ev.ID, "identity", chat.Identity)
	e.send(ctx, Message{ChatID: chat.ID, Text: "✅ Event created: *" + escape(ev.Title) + "*", Markdown: true})
}

func (e *Engine) send(ctx context.Context, msg Message) {
	if err := e.sender.Send(ctx, msg); err != nil {
		e.logger.Error("failed to send message", "chat_id", msg.ChatID, "error", err)
	}
}
