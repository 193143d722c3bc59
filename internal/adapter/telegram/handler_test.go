package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestUpdateTarget(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		u := tgbotapi.Update{Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 42},
			Text: "/lista",
		}}
		chatID, text, ok := updateTarget(u)
		assert.True(t, ok)
		assert.Equal(t, int64(42), chatID)
		assert.Equal(t, "/lista", text)
	})

	t.Run("callback with message", func(t *testing.T) {
		u := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			Data:    adminStatsBtn,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 99}},
		}}
		chatID, text, ok := updateTarget(u)
		assert.True(t, ok)
		assert.Equal(t, int64(99), chatID)
		assert.Equal(t, adminStatsBtn, text)
	})

	t.Run("inline-mode callback without message", func(t *testing.T) {
		u := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			Data:            adminStatsBtn,
			InlineMessageID: "abc",
		}}
		_, _, ok := updateTarget(u)
		assert.False(t, ok, "callback without a message has no chat to answer")
	})

	t.Run("empty update", func(t *testing.T) {
		_, _, ok := updateTarget(tgbotapi.Update{})
		assert.False(t, ok)
	})
}
