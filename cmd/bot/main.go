package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	telegramAdapter "github.com/turbostar190/birthify/internal/adapter/telegram"
	"github.com/turbostar190/birthify/internal/config"
	sqliteRepo "github.com/turbostar190/birthify/internal/infra/sqlite"
	"github.com/turbostar190/birthify/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	go func() {
		_ = http.ListenAndServe(cfg.HealthAddr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
	}()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("bot init error: %v", err)
	}
	bot.Debug = false
	logger.Info("authorized", "username", bot.Self.UserName)

	userRepo, err := sqliteRepo.NewUserRepo(cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("users sqlite init error: %v", err)
	}
	birthdayRepo, err := sqliteRepo.NewBirthdayRepo(cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("birthdays sqlite init error: %v", err)
	}
	statRepo, err := sqliteRepo.NewBroadcastStatRepo(cfg.SQLiteDSN)
	if err != nil {
		log.Fatalf("stats sqlite init error: %v", err)
	}

	dialog := usecase.NewDialog(userRepo, birthdayRepo, logger)
	sender := telegramAdapter.NewSender(bot)
	broadcastUC := usecase.NewBroadcast(userRepo, sender, statRepo)
	statsUC := usecase.NewStats(birthdayRepo)

	handler := telegramAdapter.NewHandler(bot, dialog, userRepo, broadcastUC, statsUC, cfg.AdminChatIDs, logger)
	handler.Run()
}
