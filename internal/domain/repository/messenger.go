package repository

import "context"

// Messenger sends outbound traffic to the chat platform.
type Messenger interface {
	// SendText sends a plain-text reply.
	SendText(ctx context.Context, chatID int64, text string) error

	// SendMarkdown sends a MarkdownV2 reply with link previews disabled.
	SendMarkdown(ctx context.Context, chatID int64, text string) error

	// SendTyping shows the "typing..." chat action.
	SendTyping(ctx context.Context, chatID int64) error
}
