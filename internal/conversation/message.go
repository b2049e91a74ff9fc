package conversation

import "context"

// Chat identifies who an inbound update came from and where replies go.
type Chat struct {
	ID       int64
	Identity string
}

// Button is one selectable keyboard entry.
type Button struct {
	Label     string
	Selection Selection
}

// Message is an outbound chat message with an optional inline keyboard.
type Message struct {
	ChatID   int64
	Text     string
	Markdown bool
	Keyboard [][]Button
}

// Sender delivers outbound messages to the chat transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
