package conversation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownSelection is returned by DecodeSelection for tokens this bot never issued.
var ErrUnknownSelection = errors.New("unknown selection token")

// Selection is a decoded keyboard button press.
type Selection interface {
	isSelection()
}

// PageSelection asks for a page of active events.
type PageSelection struct {
	Page int
}

// PageInfoSelection is the non-interactive page indicator.
type PageInfoSelection struct{}

// EventSelection picks an event from the list.
type EventSelection struct {
	EventID string
}

// PaymentSelection answers the payment-intent prompt for an event.
type PaymentSelection struct {
	EventID string
	CanPay  bool
}

type AdminAction string

const (
	AdminStats         AdminAction = "stats"
	AdminEvents        AdminAction = "events"
	AdminRegistrations AdminAction = "registrations"
	AdminCreateEvent   AdminAction = "create_event"
)

// AdminSelection opens one of the admin console views.
type AdminSelection struct {
	Action AdminAction
}

func (PageSelection) isSelection()     {}
func (PageInfoSelection) isSelection() {}
func (EventSelection) isSelection()    {}
func (PaymentSelection) isSelection()  {}
func (AdminSelection) isSelection()    {}

const (
	tokenPageInfo = "page_info"
	prefixPage    = "page_"
	prefixEvent   = "event_"
	prefixPayYes  = "pay_yes_"
	prefixPayNo   = "pay_no_"
	prefixAdmin   = "admin_"
)

// EncodeSelection renders a selection as the opaque token carried by a button.
func EncodeSelection(sel Selection) string {
	switch s := sel.(type) {
	case PageSelection:
		return prefixPage + strconv.Itoa(s.Page)
	case PageInfoSelection:
		return tokenPageInfo
	case EventSelection:
		return prefixEvent + s.EventID
	case PaymentSelection:
		if s.CanPay {
			return prefixPayYes + s.EventID
		}
		return prefixPayNo + s.EventID
	case AdminSelection:
		return prefixAdmin + string(s.Action)
	default:
		panic(fmt.Sprintf("conversation: unhandled selection %T", sel))
	}
}

// DecodeSelection parses a token produced by EncodeSelection.
func DecodeSelection(token string) (Selection, error) {
	switch {
	case token == tokenPageInfo:
		return PageInfoSelection{}, nil
	case strings.HasPrefix(token, prefixPage):
		n, err := strconv.Atoi(strings.TrimPrefix(token, prefixPage))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, token)
		}
		return PageSelection{Page: n}, nil
	case strings.HasPrefix(token, prefixEvent):
		return withID(token, prefixEvent, func(id string) Selection { return EventSelection{EventID: id} })
	case strings.HasPrefix(token, prefixPayYes):
		return withID(token, prefixPayYes, func(id string) Selection { return PaymentSelection{EventID: id, CanPay: true} })
	case strings.HasPrefix(token, prefixPayNo):
		return withID(token, prefixPayNo, func(id string) Selection { return PaymentSelection{EventID: id} })
	case strings.HasPrefix(token, prefixAdmin):
		switch action := AdminAction(strings.TrimPrefix(token, prefixAdmin)); action {
		case AdminStats, AdminEvents, AdminRegistrations, AdminCreateEvent:
			return AdminSelection{Action: action}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, token)
}

func withID(token, prefix string, build func(string) Selection) (Selection, error) {
	id := strings.TrimPrefix(token, prefix)
	if id == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, token)
	}
	return build(id), nil
}
