package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
	"github.com/yourusername/telegram-gemini-bot/internal/guard"
	"github.com/yourusername/telegram-gemini-bot/internal/telegramutil"
)

// Replies sent outside the happy path.
const (
	JoinPromptReply = "Please join our channel to use this bot, then try again."
	BusyReply       = "I am still working on your previous message. Please wait for the answer."
	ApologyReply    = "Sorry, something went wrong. Please try again."
)

// RelayUseCase is the per-message pipeline: membership gate, single-flight
// guard, user registry, Gemini call, markup conversion, reply.
type RelayUseCase interface {
	// HandleText runs the pipeline for one inbound text message.
	HandleText(ctx context.Context, inbound entity.InboundMessage)
}

type relayUseCase struct {
	gate      MembershipUseCase
	guard     *guard.Guard
	users     repository.UserRepository
	messages  repository.MessageRepository
	ai        repository.AIRepository
	messenger repository.Messenger
}

// NewRelayUseCase creates the message pipeline. The guard instance is owned
// by the pipeline; the handler must not touch it.
func NewRelayUseCase(
	gate MembershipUseCase,
	requestGuard *guard.Guard,
	users repository.UserRepository,
	messages repository.MessageRepository,
	ai repository.AIRepository,
	messenger repository.Messenger,
) RelayUseCase {
	return &relayUseCase{
		gate:      gate,
		guard:     requestGuard,
		users:     users,
		messages:  messages,
		ai:        ai,
		messenger: messenger,
	}
}

// HandleText runs the pipeline for one inbound text message. All
// recoverable errors end as a fallback reply or a log line; nothing
// propagates to the caller.
func (u *relayUseCase) HandleText(ctx context.Context, inbound entity.InboundMessage) {
	if !u.gate.IsMember(ctx, inbound.SenderID) {
		u.sendMarkdown(ctx, inbound.ChatID, telegramutil.EscapeMarkdownV2(JoinPromptReply))
		return
	}

	if !u.guard.TryAcquire(inbound.ChatID) {
		u.sendText(ctx, inbound.ChatID, BusyReply)
		return
	}
	defer u.guard.Release(inbound.ChatID)

	// Best effort: a registry failure must not abort the pipeline.
	if err := u.users.RegisterIfAbsent(ctx, entity.User{
		ChatID:    inbound.ChatID,
		Username:  inbound.Username,
		FirstSeen: time.Now(),
	}); err != nil {
		log.Printf("Failed to register chat %d: %v", inbound.ChatID, err)
	}

	if err := u.messenger.SendTyping(ctx, inbound.ChatID); err != nil {
		log.Printf("Failed to send typing action to chat %d: %v", inbound.ChatID, err)
	}

	response, err := u.ai.Generate(ctx, inbound.Text)
	if err != nil {
		log.Printf("Generation failed for chat %d: %v", inbound.ChatID, err)
		u.sendText(ctx, inbound.ChatID, ApologyReply)
		return
	}

	rendered := telegramutil.RenderMarkdownV2(response)
	if err := u.messenger.SendMarkdown(ctx, inbound.ChatID, rendered); err != nil {
		log.Printf("Failed to send reply to chat %d: %v", inbound.ChatID, err)
		u.sendText(ctx, inbound.ChatID, ApologyReply)
		return
	}

	u.logInteraction(ctx, inbound, response)
}

// logInteraction appends the exchange to the interaction log. Failures are
// logged and swallowed; the reply has already been delivered.
func (u *relayUseCase) logInteraction(ctx context.Context, inbound entity.InboundMessage, response string) {
	message := entity.Message{
		ID:        uuid.New().String(),
		ChatID:    inbound.ChatID,
		Username:  inbound.Username,
		Text:      inbound.Text,
		Response:  response,
		Timestamp: time.Now(),
	}
	if err := u.messages.SaveMessage(ctx, message); err != nil {
		log.Printf("Failed to log interaction for chat %d: %v", inbound.ChatID, err)
	}
}

func (u *relayUseCase) sendText(ctx context.Context, chatID int64, text string) {
	if err := u.messenger.SendText(ctx, chatID, text); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

func (u *relayUseCase) sendMarkdown(ctx context.Context, chatID int64, text string) {
	if err := u.messenger.SendMarkdown(ctx, chatID, text); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}
