package session

// State is the step a dialog is on together with the data collected so far.
// Each step is its own type so a handler can only read fields that exist for
// the current step.
type State interface {
	isState()
}

// AwaitingName waits for the user's full name. EventID is set when the dialog
// was started from a deep link to a specific event.
type AwaitingName struct {
	EventID string
}

// AwaitingEventSelection shows active events page by page.
type AwaitingEventSelection struct {
	FullName string
	Page     int
}

// AwaitingPaymentIntent waits for the yes/no answer for the chosen event.
type AwaitingPaymentIntent struct {
	FullName string
	EventID  string
}

// AwaitingAdminLogin waits for the admin login.
type AwaitingAdminLogin struct{}

// AwaitingAdminPassword waits for the admin password.
type AwaitingAdminPassword struct {
	Login string
}

// AwaitingEventDraft waits for an authenticated admin to send a new event.
type AwaitingEventDraft struct{}

// AdminAuthenticated marks an identity that passed the admin login. It is kept
// apart from the dialog sessions and expires with its store's TTL.
type AdminAuthenticated struct{}

func (AwaitingName) isState()           {}
func (AwaitingEventSelection) isState() {}
func (AwaitingPaymentIntent) isState()  {}
func (AwaitingAdminLogin) isState()     {}
func (AwaitingAdminPassword) isState()  {}
func (AwaitingEventDraft) isState()     {}
func (AdminAuthenticated) isState()     {}
