package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/turbostar190/birthify/internal/domain"
)

// ReminderEvent describes one birthday reminder that was delivered.
type ReminderEvent struct {
	ChatID int64
	Name   string
	Years  int
	Date   time.Time
}

// ReminderNotifier receives an event for every delivered reminder
// (implemented by the webhook client).
type ReminderNotifier interface {
	NotifyReminder(ctx context.Context, ev ReminderEvent) error
}

// Reminder is the daily matching job: find every stored birthday falling
// on today's month/day and greet the owner. It is meant to run once per
// calendar day from an external scheduler; running it twice on the same
// day simply re-sends the same greetings.
type Reminder struct {
	birthdays domain.BirthdayRepository
	sender    domain.MessageSender
	notifier  ReminderNotifier
	logger    *slog.Logger

	// Now is the clock deciding what "today" is.
	Now func() time.Time
}

func NewReminder(birthdays domain.BirthdayRepository, sender domain.MessageSender, logger *slog.Logger) *Reminder {
	return &Reminder{birthdays: birthdays, sender: sender, logger: logger, Now: time.Now}
}

func (r *Reminder) SetNotifier(n ReminderNotifier) { r.notifier = n }

// Run performs one scan and returns how many greetings were sent.
// Zero matches is a normal outcome, not an error.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	today := r.Now()
	matches, err := r.birthdays.FindTodayMatches(today.Month(), today.Day())
	if err != nil {
		return 0, fmt.Errorf("find today matches: %w", err)
	}

	sent := 0
	for _, m := range matches {
		// The daily greeting always speaks in whole years, never in the
		// months/days fallback used by the listing.
		years := YearsBetween(m.Birthday.Date, today)
		text := fmt.Sprintf("🎂 %s compie %s! Auguri!", m.Birthday.Name, phrase(years, UnitYear, years != 1))
		if err := r.sender.SendText(m.ChatID, text); err != nil {
			r.logger.Error("reminder send failed", "chat_id", m.ChatID, "error", err)
			continue
		}
		sent++

		if r.notifier != nil {
			ev := ReminderEvent{ChatID: m.ChatID, Name: m.Birthday.Name, Years: years, Date: m.Birthday.Date}
			if err := r.notifier.NotifyReminder(ctx, ev); err != nil {
				r.logger.Error("reminder webhook failed", "chat_id", m.ChatID, "error", err)
			}
		}
	}
	r.logger.Info("daily scan complete", "matches", len(matches), "sent", sent)
	return sent, nil
}
