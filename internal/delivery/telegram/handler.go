package telegram

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/entity"
	"github.com/yourusername/telegram-gemini-bot/internal/domain/repository"
	"github.com/yourusername/telegram-gemini-bot/internal/telegramutil"
	"github.com/yourusername/telegram-gemini-bot/internal/usecase"
)

// Fixed dispatcher replies. These paths never touch the gate, the guard or
// the registry, except where noted.
const (
	onlyTextReply = "Only text messages are supported. Please send me text."
)

// DocumentSender sends a file attachment to a chat.
type DocumentSender interface {
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
}

// BotHandler routes Telegram updates to the command dispatcher and the
// relay pipeline.
type BotHandler struct {
	messenger    repository.Messenger
	documents    DocumentSender
	relayUseCase usecase.RelayUseCase
	gateUseCase  usecase.MembershipUseCase
	adminUseCase usecase.AdminUseCase
	adminChatID  int64
}

// NewBotHandler creates the update handler.
func NewBotHandler(
	messenger repository.Messenger,
	documents DocumentSender,
	relayUseCase usecase.RelayUseCase,
	gateUseCase usecase.MembershipUseCase,
	adminUseCase usecase.AdminUseCase,
	adminChatID int64,
) *BotHandler {
	return &BotHandler{
		messenger:    messenger,
		documents:    documents,
		relayUseCase: relayUseCase,
		gateUseCase:  gateUseCase,
		adminUseCase: adminUseCase,
		adminChatID:  adminChatID,
	}
}

// Start runs the long-poll update loop until ctx is cancelled.
func (h *BotHandler) Start(ctx context.Context, bot *tgbotapi.BotAPI) error {
	log.Printf("Bot @%s is up", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot shutting down...")
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage dispatches one inbound message. The relay serves private
// chats only; non-command group chatter is dropped so the bot can sit in
// the required chat without answering there.
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if !message.Chat.IsPrivate() {
		return
	}

	// Stickers, photos, voice notes and the like are not relayed.
	if message.Text == "" {
		h.sendText(ctx, message.Chat.ID, onlyTextReply)
		return
	}

	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
	}

	h.relayUseCase.HandleText(ctx, entity.InboundMessage{
		ChatID:   message.Chat.ID,
		SenderID: message.From.ID,
		Username: username,
		Text:     message.Text,
	})
}

// handleCommand dispatches bot commands. Anything outside the allow-list
// gets the fixed unknown-command reply.
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		if !h.requireMember(ctx, message) {
			return
		}
		h.sendText(ctx, message.Chat.ID, h.getWelcomeMessage())
	case "help":
		if !h.requireMember(ctx, message) {
			return
		}
		h.sendText(ctx, message.Chat.ID, h.getHelpMessage())
	case "stats":
		if !h.isAdminChat(message.Chat.ID) {
			h.sendUnknownCommand(ctx, message)
			return
		}
		h.handleStatsCommand(ctx, message)
	case "export":
		if !h.isAdminChat(message.Chat.ID) {
			h.sendUnknownCommand(ctx, message)
			return
		}
		h.handleExportCommand(ctx, message)
	default:
		h.sendUnknownCommand(ctx, message)
	}
}

// requireMember checks the membership gate and sends the join prompt when
// it fails. Returns true when the sender may proceed.
func (h *BotHandler) requireMember(ctx context.Context, message *tgbotapi.Message) bool {
	if h.gateUseCase.IsMember(ctx, message.From.ID) {
		return true
	}
	if err := h.messenger.SendMarkdown(ctx, message.Chat.ID, telegramutil.EscapeMarkdownV2(usecase.JoinPromptReply)); err != nil {
		log.Printf("Failed to send join prompt to chat %d: %v", message.Chat.ID, err)
	}
	return false
}

// handleStatsCommand reports registry and log counters.
func (h *BotHandler) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) {
	stats, err := h.adminUseCase.Stats(ctx)
	if err != nil {
		log.Printf("Failed to collect stats: %v", err)
		h.sendText(ctx, message.Chat.ID, "Failed to collect stats.")
		return
	}

	h.sendText(ctx, message.Chat.ID, fmt.Sprintf(
		"Registered users: %d\nLogged interactions: %d\nRequests in flight: %d",
		stats.Users, stats.Interactions, stats.InFlight))
}

// handleExportCommand sends the registry workbook as a document.
func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	data, err := h.adminUseCase.ExportWorkbook(ctx)
	if err != nil {
		log.Printf("Failed to build export: %v", err)
		h.sendText(ctx, message.Chat.ID, "Failed to build the export file.")
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	if err := h.documents.SendDocument(ctx, message.Chat.ID, filename, data); err != nil {
		log.Printf("Failed to send export to chat %d: %v", message.Chat.ID, err)
	}
}

func (h *BotHandler) sendUnknownCommand(ctx context.Context, message *tgbotapi.Message) {
	h.sendText(ctx, message.Chat.ID, fmt.Sprintf("Unknown command: /%s", message.Command()))
}

func (h *BotHandler) isAdminChat(chatID int64) bool {
	return h.adminChatID != 0 && chatID == h.adminChatID
}

// sendText sends a plain-text message, logging delivery failures.
func (h *BotHandler) sendText(ctx context.Context, chatID int64, text string) {
	if err := h.messenger.SendText(ctx, chatID, text); err != nil {
		log.Printf("Failed to send message to chat %d: %v", chatID, err)
	}
}

// getWelcomeMessage builds the /start reply.
func (h *BotHandler) getWelcomeMessage() string {
	return "Hi! I relay your messages to Gemini.\n\n" +
		"Send me any text message and I will answer. " +
		"One request at a time per chat; use /help for details."
}

// getHelpMessage builds the /help reply.
func (h *BotHandler) getHelpMessage() string {
	return "Send me a text message and I will ask Gemini for you.\n\n" +
		"Commands:\n" +
		"/start - short introduction\n" +
		"/help - this message\n\n" +
		"Only text is supported, and only one request per chat may run at a time."
}
