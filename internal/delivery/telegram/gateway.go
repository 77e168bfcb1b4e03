package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway adapts the Telegram Bot API to the messenger and membership
// interfaces consumed by the usecases.
type Gateway struct {
	bot            *tgbotapi.BotAPI
	requiredChatID int64
}

// NewGateway connects to the Bot API.
func NewGateway(token string, requiredChatID int64) (*Gateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Gateway{
		bot:            bot,
		requiredChatID: requiredChatID,
	}, nil
}

// Bot exposes the underlying client for the update loop.
func (g *Gateway) Bot() *tgbotapi.BotAPI {
	return g.bot
}

// SendText sends a plain-text message.
func (g *Gateway) SendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := g.bot.Send(msg)
	return err
}

// SendMarkdown sends a MarkdownV2 message with link previews disabled.
func (g *Gateway) SendMarkdown(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	_, err := g.bot.Send(msg)
	return err
}

// SendTyping shows the "typing..." chat action.
func (g *Gateway) SendTyping(ctx context.Context, chatID int64) error {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, err := g.bot.Request(action)
	return err
}

// SendDocument sends a file attachment.
func (g *Gateway) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	_, err := g.bot.Send(doc)
	return err
}

// MemberStatus looks up the user's status in the required chat.
func (g *Gateway) MemberStatus(ctx context.Context, userID int64) (string, error) {
	member, err := g.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: g.requiredChatID,
			UserID: userID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to get chat member: %w", err)
	}
	return member.Status, nil
}
