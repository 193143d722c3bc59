package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	telegramAdapter "github.com/turbostar190/birthify/internal/adapter/telegram"
	"github.com/turbostar190/birthify/internal/config"
	sqliteRepo "github.com/turbostar190/birthify/internal/infra/sqlite"
	"github.com/turbostar190/birthify/internal/infra/webhook"
	"github.com/turbostar190/birthify/internal/usecase"
)

// One-shot birthday scan, meant to be invoked once per day by cron.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("bot init error: %v", err)
	}

	// Opening the user repo first guarantees the users table exists for
	// the match join even on a fresh database.
	if _, err := sqliteRepo.NewUserRepo(cfg.SQLiteDSN); err != nil {
		log.Fatalf("users sqlite init error: %v", err)
	}
	birthdayRepo, err := sqliteRepo.NewBirthdayRepo(cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("birthdays sqlite init error: %v", err)
	}

	reminder := usecase.NewReminder(birthdayRepo, telegramAdapter.NewSender(bot), logger)
	if cfg.WebhookURL != "" {
		reminder.SetNotifier(webhook.NewClient(cfg.WebhookURL, webhook.WithAuthToken(cfg.WebhookToken)))
	}

	sent, err := reminder.Run(context.Background())
	if err != nil {
		log.Fatalf("daily run failed: %v", err)
	}
	logger.Info("daily run complete", "sent", sent)
}
