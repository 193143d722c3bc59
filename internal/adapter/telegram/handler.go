package telegram

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/turbostar190/birthify/internal/domain"
	"github.com/turbostar190/birthify/internal/usecase"
)

const (
	adminCmd          = "/admin"
	adminBroadcastBtn = "Crea annuncio"
	adminRecentBtn    = "Annunci recenti"
	adminStatsBtn     = "Statistiche"
)

type Handler struct {
	bot       *tgbotapi.BotAPI
	dialog    *usecase.Dialog
	users     domain.UserRegistry
	broadcast *usecase.Broadcast
	stats     *usecase.Stats
	adminIDs  map[int64]struct{}

	sessions      map[int64]*usecase.Session
	bcastSessions map[int64]*usecase.BroadcastSession
	logger        *slog.Logger
}

func NewHandler(bot *tgbotapi.BotAPI, dialog *usecase.Dialog, users domain.UserRegistry, broadcast *usecase.Broadcast, stats *usecase.Stats, adminIDs map[int64]struct{}, logger *slog.Logger) *Handler {
	return &Handler{
		bot:           bot,
		dialog:        dialog,
		users:         users,
		broadcast:     broadcast,
		stats:         stats,
		adminIDs:      adminIDs,
		sessions:      make(map[int64]*usecase.Session),
		bcastSessions: make(map[int64]*usecase.BroadcastSession),
		logger:        logger,
	}
}

// Run consumes the long-polling update stream. A single goroutine drains
// it, so each chat's messages are handled strictly in arrival order.
func (h *Handler) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := h.bot.GetUpdatesChan(u)
	for update := range updates {
		chatID, text, ok := updateTarget(update)
		if !ok {
			continue
		}

		// Register every chat on first contact, whatever the command.
		if _, _, err := h.users.EnsureUser(chatID); err != nil {
			h.logger.Error("user save failed", "chat_id", chatID, "error", err)
		}

		if text == adminCmd {
			if !h.isAdmin(chatID) {
				h.sendText(chatID, "Accesso negato")
				h.logger.Warn("admin denied", "chat_id", chatID)
				continue
			}
			msg := tgbotapi.NewMessage(chatID, "Menu amministratore")
			msg.ReplyMarkup = inlineKeyboard([]string{adminBroadcastBtn, adminRecentBtn, adminStatsBtn})
			_, _ = h.bot.Send(msg)
			continue
		}
		if h.isAdmin(chatID) && h.handleAdmin(chatID, update, text) {
			continue
		}

		s := h.getSession(chatID)
		h.send(chatID, h.dialog.Handle(s, chatID, text))
	}
}

// updateTarget extracts the chat and text of an update. Callback queries
// from inline-mode messages carry no Message and are skipped.
func updateTarget(update tgbotapi.Update) (int64, string, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, update.Message.Text, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.Data, true
	}
	return 0, "", false
}

// handleAdmin reports whether the update was consumed by an admin flow.
// Admins fall through to the normal birthday dialog otherwise.
func (h *Handler) handleAdmin(chatID int64, update tgbotapi.Update, text string) bool {
	switch text {
	case adminBroadcastBtn:
		s := h.getBSession(chatID)
		h.sendText(chatID, h.broadcast.Start(s))
		h.logger.Info("broadcast start", "chat_id", chatID)
		return true
	case adminRecentBtn:
		h.sendText(chatID, h.broadcast.StatsSummary(5))
		return true
	case adminStatsBtn:
		labels, values, err := h.stats.GraphData()
		if err != nil {
			h.logger.Error("stats query failed", "error", err)
			h.sendText(chatID, "Statistiche non disponibili")
			return true
		}
		if err := h.sendMonthChart(chatID, labels, values); err != nil {
			h.logger.Error("month chart failed", "error", err)
			if fallback, err := h.stats.Chart(); err == nil {
				h.sendText(chatID, fallback)
			}
		}
		return true
	}

	s := h.bcastSessions[chatID]
	if s == nil || s.State == usecase.BStateIdle {
		return false
	}
	if m := update.Message; m != nil && len(m.Photo) > 0 {
		ph := m.Photo[len(m.Photo)-1]
		msg, opts := h.broadcast.ReceivePhoto(s, ph.FileID, m.Caption)
		h.sendTextWithInline(chatID, msg, opts)
		return true
	}
	switch s.State {
	case usecase.BStateEnter:
		msg, opts, _ := h.broadcast.ReceiveText(s, text)
		h.sendTextWithInline(chatID, msg, opts)
		return true
	case usecase.BStateConfirm:
		msg, _ := h.broadcast.ConfirmSend(s, text)
		h.sendText(chatID, msg)
		h.logger.Info("broadcast confirm", "chat_id", chatID)
		return true
	}
	return false
}

func (h *Handler) isAdmin(chatID int64) bool {
	_, ok := h.adminIDs[chatID]
	return ok
}

func (h *Handler) getSession(chatID int64) *usecase.Session {
	if s, ok := h.sessions[chatID]; ok {
		return s
	}
	s := &usecase.Session{State: usecase.StateIdle}
	h.sessions[chatID] = s
	return s
}

func (h *Handler) getBSession(chatID int64) *usecase.BroadcastSession {
	if s, ok := h.bcastSessions[chatID]; ok {
		return s
	}
	s := &usecase.BroadcastSession{State: usecase.BStateIdle}
	h.bcastSessions[chatID] = s
	return s
}

func (h *Handler) send(chatID int64, r usecase.Reply) {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	switch r.Keyboard {
	case usecase.KeyboardMain:
		msg.ReplyMarkup = mainKeyboard()
	case usecase.KeyboardCancel:
		msg.ReplyMarkup = cancelKeyboard()
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handler) sendTextWithInline(chatID int64, text string, opts []string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(opts) > 0 {
		msg.ReplyMarkup = inlineKeyboard(opts)
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("send failed", "chat_id", chatID, "error", err)
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(usecase.BtnAdd),
			tgbotapi.NewKeyboardButton(usecase.BtnList),
			tgbotapi.NewKeyboardButton(usecase.BtnRemove),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(usecase.BtnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func inlineKeyboard(opts []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(o, o),
		))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// sendMonthChart renders the twelve-month birthday distribution as a PNG
// bar chart and sends it as a photo.
func (h *Handler) sendMonthChart(chatID int64, labels []string, values []int) error {
	bars := make([]chart.Value, len(labels))
	top := 1 // Render rejects a zero-height range, so keep at least one unit
	for i, label := range labels {
		bars[i] = chart.Value{Label: label, Value: float64(values[i])}
		if values[i] > top {
			top = values[i]
		}
	}
	graph := chart.BarChart{
		Title:      "Compleanni per mese",
		Width:      900,
		Height:     500,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 12, Right: 12}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(top)}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return err
	}
	name := fmt.Sprintf("compleanni_%d.png", time.Now().Unix())
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: buf.Bytes()})
	_, err := h.bot.Send(photo)
	return err
}

// Sender implementation handed to the usecases
type Sender struct{ bot *tgbotapi.BotAPI }

func NewSender(bot *tgbotapi.BotAPI) *Sender { return &Sender{bot: bot} }

func (s *Sender) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := s.bot.Send(msg)
	return err
}

func (s *Sender) SendPhoto(chatID int64, fileID string, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	_, err := s.bot.Send(photo)
	return err
}
