package usecase

import (
	"context"
	"fmt"

	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
	"github.com/yourusername/telegram-gemini-bot/internal/guard"
	"github.com/yourusername/telegram-gemini-bot/internal/infrastructure/export"
)

// Stats is a snapshot of the registry and log sizes for /stats.
type Stats struct {
	Users        int
	Interactions int
	InFlight     int
}

// AdminUseCase serves the admin-only commands.
type AdminUseCase interface {
	// Stats collects registry and log counters.
	Stats(ctx context.Context) (Stats, error)

	// ExportWorkbook builds an Excel workbook of the registry and the
	// interaction log.
	ExportWorkbook(ctx context.Context) ([]byte, error)
}

type adminUseCase struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	guard    *guard.Guard
}

// NewAdminUseCase creates the admin usecase.
func NewAdminUseCase(
	users repository.UserRepository,
	messages repository.MessageRepository,
	requestGuard *guard.Guard,
) AdminUseCase {
	return &adminUseCase{
		users:    users,
		messages: messages,
		guard:    requestGuard,
	}
}

// Stats collects registry and log counters.
func (u *adminUseCase) Stats(ctx context.Context) (Stats, error) {
	users, err := u.users.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count users: %w", err)
	}

	interactions, err := u.messages.CountMessages(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to count interactions: %w", err)
	}

	return Stats{
		Users:        users,
		Interactions: interactions,
		InFlight:     u.guard.InFlight(),
	}, nil
}

// ExportWorkbook builds an Excel workbook of the registry and the log.
func (u *adminUseCase) ExportWorkbook(ctx context.Context) ([]byte, error) {
	users, err := u.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	messages, err := u.messages.GetAllMessages(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}

	return export.BuildWorkbook(users, messages)
}
