package conversation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdg-garage/event-signup-bot/internal/models"
)

const dateLayout = "02.01.2006"

const (
	textGreeting       = "Hello! 🎉\n\nPlease enter your first and last name:"
	textNoActiveEvents = "There are no open events right now. Check back later! 🎯"
	textNoEventsOnPage = "There are no events on this page."
	textError          = "❌ Something went wrong. Please try again."
	textRestart        = "❌ Something went wrong. Please start again with /start"
	textEventGone      = "❌ This event is no longer available. Please start again with /start"
	textAdminLogin     = "🔐 *Admin Panel*\n\nEnter login:"
	textAdminPassword  = "🔐 Enter password:"
	textAdminFailed    = "❌ Wrong login or password!\n\nTry again with /admin"
	textAdminOnly      = "🔐 This view is part of the admin panel. Log in with /admin"
	textHelp           = "/start - register for an event\n/admin - admin panel"

	ackEventNotFound = "Event not found"
	ackPageInfo      = "Use the arrows to switch pages"
	ackError         = "Something went wrong"
)

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// escape makes user-supplied text safe inside a Markdown message.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func (e *Engine) formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64) + " " + e.currency
}

// SplitName splits a full name into the first token and the rest.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (e *Engine) eventCard(ev *models.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 *%s*\n\n", escape(ev.Title))
	fmt.Fprintf(&b, "📅 Date: %s\n", formatDate(ev.Date))
	fmt.Fprintf(&b, "⏰ Time: %s\n", escape(ev.Time))
	fmt.Fprintf(&b, "📍 Location: %s\n\n", escape(ev.Location))
	fmt.Fprintf(&b, "🚀 %s\n\n", escape(ev.Description))
	if ev.Requirements != "" {
		fmt.Fprintf(&b, "📌 %s\n\n", escape(ev.Requirements))
	}
	fmt.Fprintf(&b, "Can you bring %s on the day of the event? The money goes towards food and drinks for the party.", escape(e.formatPrice(ev.Price)))
	return b.String()
}

func (e *Engine) confirmation(ev *models.Event, canPay bool) string {
	payment := "💰 Payment: not bringing"
	if canPay {
		payment = "💰 Payment: " + e.formatPrice(ev.Price)
	}
	return fmt.Sprintf("🎉 You are registered for \"%s\"!\n\n📅 Date: %s\n⏰ Time: %s\n📍 Location: %s\n%s\n\nDon't be late! 🚀",
		ev.Title, formatDate(ev.Date), ev.Time, ev.Location, payment)
}

func paymentKeyboard(eventID string) [][]Button {
	return [][]Button{{
		{Label: "Yes, I'll bring it", Selection: PaymentSelection{EventID: eventID, CanPay: true}},
		{Label: "No, I won't", Selection: PaymentSelection{EventID: eventID, CanPay: false}},
	}}
}

// pageKeyboard lays out one row per event and, when there is more than one
// page, a navigation row.
func (e *Engine) pageKeyboard(events []models.Event, page, totalPages int) [][]Button {
	rows := make([][]Button, 0, len(events)+1)
	for _, ev := range events {
		rows = append(rows, []Button{{
			Label:     fmt.Sprintf("%s - %s", ev.Title, e.formatPrice(ev.Price)),
			Selection: EventSelection{EventID: ev.ID},
		}})
	}
	if totalPages <= 1 {
		return rows
	}

	nav := make([]Button, 0, 3)
	if page > 0 {
		nav = append(nav, Button{Label: "⬅️ Previous", Selection: PageSelection{Page: page - 1}})
	}
	nav = append(nav, Button{Label: fmt.Sprintf("%d/%d", page+1, totalPages), Selection: PageInfoSelection{}})
	if page < totalPages-1 {
		nav = append(nav, Button{Label: "Next ➡️", Selection: PageSelection{Page: page + 1}})
	}
	return append(rows, nav)
}
