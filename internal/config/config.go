package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the process configuration, loaded once from the
// environment at startup and treated as immutable.
type Config struct {
	TelegramToken string
	SQLiteDSN     string
	HealthAddr    string
	AdminChatIDs  map[int64]struct{}
	WebhookURL    string
	WebhookToken  string
}

// Load reads the configuration from environment variables. The Telegram
// token is required, everything else has a default or is optional.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("required environment variable is not set: TELEGRAM_BOT_TOKEN")
	}

	cfg.SQLiteDSN = getEnvString("BIRTHDAYS_SQLITE_DSN", "birthdays.db")
	cfg.HealthAddr = getEnvString("HEALTH_ADDR", ":8080")
	cfg.AdminChatIDs = parseAdminIDs(os.Getenv("ADMIN_CHAT_IDS"))
	cfg.WebhookURL = os.Getenv("REMINDER_WEBHOOK_URL")
	cfg.WebhookToken = os.Getenv("REMINDER_WEBHOOK_TOKEN")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseAdminIDs(raw string) map[int64]struct{} {
	ids := map[int64]struct{}{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids[id] = struct{}{}
		}
	}
	return ids
}
