package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/yourusername/telegram-gemini-bot/config"
	"github.com/yourusername/telegram-gemini-bot/internal/delivery/telegram"
	"github.com/yourusername/telegram-gemini-bot/internal/guard"
	"github.com/yourusername/telegram-gemini-bot/internal/infrastructure/gemini"
	"github.com/yourusername/telegram-gemini-bot/internal/infrastructure/storage"
	"github.com/yourusername/telegram-gemini-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store, err := storage.NewSQLiteStore(cfg.BotDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	aiClient, err := gemini.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer aiClient.Close()

	gateway, err := telegram.NewGateway(cfg.TelegramToken, cfg.RequiredChatID)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}

	requestGuard := guard.New()
	gate := usecase.NewMembershipUseCase(gateway)
	relay := usecase.NewRelayUseCase(gate, requestGuard, store, store, aiClient, gateway)
	admin := usecase.NewAdminUseCase(store, store, requestGuard)

	handler := telegram.NewBotHandler(gateway, gateway, relay, gate, admin, cfg.AdminChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := handler.Start(ctx, gateway.Bot()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot stopped: %v", err)
	}
}
