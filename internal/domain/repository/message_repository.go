package repository

import (
	"context"

	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
)

// MessageRepository keeps the relay interaction log. The log is never fed
// back into prompts; it only serves the admin commands.
type MessageRepository interface {
	// SaveMessage appends one exchange to the log.
	SaveMessage(ctx context.Context, message entity.Message) error

	// GetAllMessages returns the most recent exchanges, newest first.
	// A limit of 0 means no limit.
	GetAllMessages(ctx context.Context, limit int) ([]entity.Message, error)

	// CountMessages returns the number of logged exchanges.
	CountMessages(ctx context.Context) (int, error)
}
