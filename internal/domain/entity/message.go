package entity

import "time"

// Message is one relayed exchange: the user's prompt and the reply that
// was sent back.
type Message struct {
	ID        string
	ChatID    int64
	Username  string
	Text      string
	Response  string
	Timestamp time.Time
}

// InboundMessage is a message received from the chat platform, reduced to
// what the pipeline needs.
type InboundMessage struct {
	ChatID   int64
	SenderID int64
	Username string
	Text     string
}
