package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/models"
)

const (
	recentInStats         = 5
	recentInRegistrations = 20
)

// Console computes the read-only admin views over both stores.
type Console struct {
	events        EventStore
	registrations RegistrationStore
	now           func() time.Time
}

func NewConsole(events EventStore, registrations RegistrationStore, now func() time.Time) *Console {
	if now == nil {
		now = time.Now
	}
	return &Console{events: events, registrations: registrations, now: now}
}

type Stats struct {
	TotalEvents        int64
	ActiveEvents       int64
	TotalRegistrations int64
	PaymentReady       int64
	RegisteredToday    int64
	Recent             []models.Registration
}

// EventSummary is an event with its registration count.
type EventSummary struct {
	Event         models.Event
	Registrations int64
}

func (c *Console) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	var err error
	if s.TotalEvents, err = c.events.Count(ctx); err != nil {
		return s, err
	}
	if s.ActiveEvents, err = c.events.CountActive(ctx); err != nil {
		return s, err
	}
	if s.TotalRegistrations, err = c.registrations.Count(ctx); err != nil {
		return s, err
	}
	if s.PaymentReady, err = c.registrations.CountPaymentReady(ctx); err != nil {
		return s, err
	}
	now := c.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if s.RegisteredToday, err = c.registrations.CountSince(ctx, midnight); err != nil {
		return s, err
	}
	if s.Recent, err = c.registrations.Recent(ctx, recentInStats); err != nil {
		return s, err
	}
	return s, nil
}

// Events lists every event by date with its registration count.
func (c *Console) Events(ctx context.Context) ([]EventSummary, error) {
	events, err := c.events.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := c.registrations.CountByEvent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EventSummary, len(events))
	for i, ev := range events {
		out[i] = EventSummary{Event: ev, Registrations: counts[ev.ID]}
	}
	return out, nil
}

func (c *Console) Registrations(ctx context.Context) ([]models.Registration, error) {
	return c.registrations.Recent(ctx, recentInRegistrations)
}

func adminKeyboard() [][]Button {
	return [][]Button{
		{
			{Label: "📊 Stats", Selection: AdminSelection{Action: AdminStats}},
			{Label: "🎯 Events", Selection: AdminSelection{Action: AdminEvents}},
		},
		{
			{Label: "👥 Registrations", Selection: AdminSelection{Action: AdminRegistrations}},
			{Label: "➕ New event", Selection: AdminSelection{Action: AdminCreateEvent}},
		},
	}
}

func writeRecent(b *strings.Builder, recent []models.Registration) {
	if len(recent) == 0 {
		return
	}
	b.WriteString("📋 *Latest registrations:*\n")
	for i, reg := range recent {
		fmt.Fprintf(b, "%d. %s %s - %s\n", i+1, escape(reg.FirstName), escape(reg.LastName), escape(eventTitle(reg)))
	}
}

func eventTitle(reg models.Registration) string {
	if reg.Event == nil {
		return "(deleted event)"
	}
	return reg.Event.Title
}

func renderPanel(s Stats) string {
	var b strings.Builder
	b.WriteString("🔐 *Admin Panel*\n\n")
	b.WriteString("📊 *Overview:*\n")
	fmt.Fprintf(&b, "🎯 Events: %d (active: %d)\n", s.TotalEvents, s.ActiveEvents)
	fmt.Fprintf(&b, "👥 Registrations: %d\n", s.TotalRegistrations)
	fmt.Fprintf(&b, "💰 Ready to pay: %d\n\n", s.PaymentReady)
	writeRecent(&b, s.Recent)
	b.WriteString("\nPick a view below.")
	return b.String()
}

func renderStats(s Stats) string {
	var b strings.Builder
	b.WriteString("📊 *Full statistics*\n\n")
	b.WriteString("🎯 *Events:*\n")
	fmt.Fprintf(&b, "   Total: %d\n", s.TotalEvents)
	fmt.Fprintf(&b, "   Active: %d\n", s.ActiveEvents)
	fmt.Fprintf(&b, "   Inactive: %d\n\n", s.TotalEvents-s.ActiveEvents)
	b.WriteString("👥 *Registrations:*\n")
	fmt.Fprintf(&b, "   Total: %d\n", s.TotalRegistrations)
	fmt.Fprintf(&b, "   Today: %d\n", s.RegisteredToday)
	fmt.Fprintf(&b, "   Ready to pay: %d\n", s.PaymentReady)
	fmt.Fprintf(&b, "   Not ready to pay: %d\n\n", s.TotalRegistrations-s.PaymentReady)
	writeRecent(&b, s.Recent)
	return b.String()
}

func (e *Engine) renderEvents(events []EventSummary) string {
	if len(events) == 0 {
		return "There are no events yet."
	}
	var b strings.Builder
	b.WriteString("🎯 *Events*\n\n")
	for i, s := range events {
		status := "❌ Inactive"
		if s.Event.IsActive {
			status = "✅ Active"
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, escape(s.Event.Title))
		fmt.Fprintf(&b, "   📅 %s ⏰ %s\n", formatDate(s.Event.Date), escape(s.Event.Time))
		fmt.Fprintf(&b, "   📍 %s\n", escape(s.Event.Location))
		fmt.Fprintf(&b, "   💰 %s\n", escape(e.formatPrice(s.Event.Price)))
		fmt.Fprintf(&b, "   👥 Registered: %d\n", s.Registrations)
		fmt.Fprintf(&b, "   %s\n\n", status)
	}
	return b.String()
}

func (e *Engine) renderRegistrations(regs []models.Registration) string {
	if len(regs) == 0 {
		return "Nobody has registered yet."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👥 *Registrations (latest %d)*\n\n", recentInRegistrations)
	for i, reg := range regs {
		payment := "❌ Not ready"
		if reg.PaymentReady() {
			payment = "✅ Ready"
		}
		price := "-"
		if reg.Event != nil {
			price = e.formatPrice(reg.Event.Price)
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, escape(reg.FirstName), escape(reg.LastName))
		fmt.Fprintf(&b, "   🎯 %s\n", escape(eventTitle(reg)))
		fmt.Fprintf(&b, "   💰 %s %s\n", escape(price), payment)
		fmt.Fprintf(&b, "   📅 %s\n\n", formatDate(reg.CreatedAt))
	}
	return b.String()
}

const draftFormat = "📝 New event. Send one message with these lines:\n\n" +
	"Title\nDescription\nDate (DD.MM.YYYY)\nTime (HH:mm)\nLocation\nPrice (e.g. 15000)\nRequirements (optional)"

var errDraftFormat = errors.New("expected 6 or 7 non-empty lines")

// ParseEventDraft reads an event from the line-based admin format.
func ParseEventDraft(text string) (*models.Event, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 6 || len(lines) > 7 {
		return nil, errDraftFormat
	}

	date, err := time.Parse(dateLayout, lines[2])
	if err != nil {
		return nil, fmt.Errorf("date %q is not DD.MM.YYYY", lines[2])
	}
	if _, err := time.Parse("15:04", lines[3]); err != nil {
		return nil, fmt.Errorf("time %q is not HH:mm", lines[3])
	}
	price, err := strconv.ParseFloat(strings.ReplaceAll(lines[5], " ", ""), 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("price %q is not a non-negative number", lines[5])
	}

	ev := &models.Event{
		Title:       lines[0],
		Description: lines[1],
		Date:        date,
		Time:        lines[3],
		Location:    lines[4],
		Price:       price,
		IsActive:    true,
	}
	if len(lines) == 7 {
		ev.Requirements = lines[6]
	}
	return ev, nil
}
