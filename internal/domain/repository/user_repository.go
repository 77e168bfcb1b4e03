package repository

import (
	"context"

	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
)

// UserRepository persists the set of chats that have messaged the bot.
type UserRepository interface {
	// RegisterIfAbsent records the user unless the chat is already known.
	// Calling it twice with the same chat id leaves one entry.
	RegisterIfAbsent(ctx context.Context, user entity.User) error

	// GetAll returns every registered user, oldest first.
	GetAll(ctx context.Context) ([]entity.User, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
