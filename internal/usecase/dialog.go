package usecase

// Conversation states and replies, independent of Telegram.

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/turbostar190/birthify/internal/domain"
)

type State string

const (
	StateIdle        State = "idle"
	StateAwaitDate   State = "await_date"
	StateAwaitName   State = "await_name"
	StateAwaitDelete State = "await_delete_choice"
)

const (
	CmdStart  = "/start"
	CmdAdd    = "/add"
	CmdList   = "/lista"
	CmdRemove = "/remove"
	CmdCancel = "/cancel"

	BtnAdd    = "➕ Aggiungi"
	BtnList   = "☰ Lista"
	BtnRemove = "🗑️ Rimuovi"
	BtnCancel = "❌ Annulla"
)

const (
	msgWelcomeNew  = "Benvenuto nel bot! Comandi disponibili in basso."
	msgWelcomeBack = "Felice di risentirti nel bot! Comandi disponibili in basso."
	msgAskDate     = "Inserisci la data di nascita (gg/mm/aaaa): "
	msgAskName     = "Inserisci il nome del festeggiato: "
	msgBadDate     = "Formato non valido! Reinserisci la data di nascita (esempio 15/12/2000): "
	msgFutureDate  = "Non puoi inserire una data futura! Reinserisci la data di nascita: "
	msgAdded       = "Perfetto! Compleanno inserito!"
	msgAddFailed   = "Qualcosa è andato storto! Ritenta l'inserimento premendo 'Aggiungi'"
	msgNoBirthdays = "Non hai ancora inserito nessun compleanno!"
	msgAskDelete   = "Quale compleanno vuoi eliminare?\n"
	msgBadDelete   = "Scelta non valida! Invia uno dei comandi /del_... elencati oppure premi 'Annulla'"
	msgDeleted     = "Perfetto! Compleanno eliminato!"
	msgDelFailed   = "Qualcosa è andato storto! Ritenta l'eliminazione premendo 'Rimuovi'"
	msgCancelled   = "Azione annullata!"
	msgStoreError  = "Qualcosa è andato storto! Riprova più tardi."
	msgUnknown     = "Non ho capito. Usa i bottoni in basso."
)

// Keyboard tells the transport which reply keyboard to attach.
type Keyboard int

const (
	KeyboardMain   Keyboard = iota // add / list / remove
	KeyboardCancel                 // single cancel button while mid-flow
)

// Session is the per-chat conversation state. It is owned by the single
// goroutine handling that chat and is never shared across users.
type Session struct {
	State       State
	PendingDate time.Time
}

func (s *Session) reset() {
	s.State = StateIdle
	s.PendingDate = time.Time{}
}

type Reply struct {
	Text     string
	Keyboard Keyboard
}

var deleteTokenRe = regexp.MustCompile(`^/?del_(\d+)$`)

type Dialog struct {
	users     domain.UserRegistry
	birthdays domain.BirthdayRepository
	logger    *slog.Logger

	// Now is the clock used for date validation and age rendering.
	Now func() time.Time
}

func NewDialog(users domain.UserRegistry, birthdays domain.BirthdayRepository, logger *slog.Logger) *Dialog {
	return &Dialog{users: users, birthdays: birthdays, logger: logger, Now: time.Now}
}

// Handle advances the chat's session with one inbound message and returns
// the single reply for it.
func (d *Dialog) Handle(s *Session, chatID int64, text string) Reply {
	text = strings.TrimSpace(text)

	// The cancel button behaves the same in every non-idle state: drop
	// whatever was stashed, nothing has been persisted yet.
	if s.State != StateIdle && isCancel(text) {
		s.reset()
		return Reply{Text: msgCancelled, Keyboard: KeyboardMain}
	}

	switch s.State {
	case StateAwaitDate:
		return d.receiveDate(s, chatID, text)
	case StateAwaitName:
		return d.receiveName(s, chatID, text)
	case StateAwaitDelete:
		return d.receiveDeleteChoice(s, chatID, text)
	}
	return d.handleCommand(s, chatID, text)
}

func isCancel(text string) bool {
	return text == BtnCancel || text == CmdCancel
}

func (d *Dialog) handleCommand(s *Session, chatID int64, text string) Reply {
	switch text {
	case CmdStart:
		isNew, _, err := d.users.EnsureUser(chatID)
		if err != nil {
			d.logger.Error("user save failed", "chat_id", chatID, "error", err)
			return Reply{Text: msgStoreError, Keyboard: KeyboardMain}
		}
		if isNew {
			return Reply{Text: msgWelcomeNew, Keyboard: KeyboardMain}
		}
		return Reply{Text: msgWelcomeBack, Keyboard: KeyboardMain}

	case CmdAdd, BtnAdd:
		s.State = StateAwaitDate
		return Reply{Text: msgAskDate, Keyboard: KeyboardCancel}

	case CmdList, BtnList:
		rows, err := d.listFor(chatID)
		if err != nil {
			d.logger.Error("birthday list failed", "chat_id", chatID, "error", err)
			return Reply{Text: msgStoreError, Keyboard: KeyboardMain}
		}
		return Reply{Text: renderList(rows, false, d.Now()), Keyboard: KeyboardMain}

	case CmdRemove, BtnRemove:
		rows, err := d.listFor(chatID)
		if err != nil {
			d.logger.Error("birthday list failed", "chat_id", chatID, "error", err)
			return Reply{Text: msgStoreError, Keyboard: KeyboardMain}
		}
		if len(rows) == 0 {
			return Reply{Text: msgNoBirthdays, Keyboard: KeyboardMain}
		}
		s.State = StateAwaitDelete
		return Reply{Text: msgAskDelete + renderList(rows, true, d.Now()), Keyboard: KeyboardCancel}

	case CmdCancel, BtnCancel:
		return Reply{Text: msgCancelled, Keyboard: KeyboardMain}
	}
	return Reply{Text: msgUnknown, Keyboard: KeyboardMain}
}

func (d *Dialog) receiveDate(s *Session, chatID int64, text string) Reply {
	date, err := ParseBirthdate(text, d.Now())
	switch {
	case errors.Is(err, ErrFutureDate):
		d.logger.Warn("future birthdate rejected", "chat_id", chatID, "text", text)
		return Reply{Text: msgFutureDate, Keyboard: KeyboardCancel}
	case err != nil:
		d.logger.Warn("invalid birthdate", "chat_id", chatID, "text", text)
		return Reply{Text: msgBadDate, Keyboard: KeyboardCancel}
	}
	s.PendingDate = date
	s.State = StateAwaitName
	return Reply{Text: msgAskName, Keyboard: KeyboardCancel}
}

func (d *Dialog) receiveName(s *Session, chatID int64, name string) Reply {
	date := s.PendingDate
	s.reset()

	_, ownerID, err := d.users.EnsureUser(chatID)
	if err == nil {
		_, err = d.birthdays.Insert(ownerID, date, name)
	}
	if err != nil {
		d.logger.Error("birthday insert failed", "chat_id", chatID, "error", err)
		return Reply{Text: msgAddFailed, Keyboard: KeyboardMain}
	}
	d.logger.Info("birthday added", "chat_id", chatID, "date", date.Format("2006-01-02"))
	return Reply{Text: msgAdded, Keyboard: KeyboardMain}
}

func (d *Dialog) receiveDeleteChoice(s *Session, chatID int64, text string) Reply {
	m := deleteTokenRe.FindStringSubmatch(text)
	if m == nil {
		// Unknown reply: re-prompt and stay, the printed /del list is
		// still valid.
		d.logger.Warn("invalid delete choice", "chat_id", chatID, "text", text)
		return Reply{Text: msgBadDelete, Keyboard: KeyboardCancel}
	}
	s.reset()

	recordID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Reply{Text: msgDelFailed, Keyboard: KeyboardMain}
	}
	removed, err := d.birthdays.DeleteOwned(recordID, chatID)
	if err != nil {
		d.logger.Error("birthday delete failed", "chat_id", chatID, "record_id", recordID, "error", err)
	}
	// A missing record and a record owned by someone else get the same
	// generic answer.
	if err != nil || !removed {
		return Reply{Text: msgDelFailed, Keyboard: KeyboardMain}
	}
	d.logger.Info("birthday deleted", "chat_id", chatID, "record_id", recordID)
	return Reply{Text: msgDeleted, Keyboard: KeyboardMain}
}

func (d *Dialog) listFor(chatID int64) ([]domain.Birthday, error) {
	_, ownerID, err := d.users.EnsureUser(chatID)
	if err != nil {
		return nil, err
	}
	return d.birthdays.ListByOwner(ownerID)
}

func renderList(rows []domain.Birthday, withDeleteTokens bool, now time.Time) string {
	if len(rows) == 0 {
		return msgNoBirthdays
	}
	var b strings.Builder
	for _, r := range rows {
		if withDeleteTokens {
			fmt.Fprintf(&b, "%s: %s - /del_%d\n", r.Name, r.Date.Format("02/01/2006"), r.ID)
		} else {
			fmt.Fprintf(&b, "%s: %s - %s\n", r.Name, r.Date.Format("02/01/2006"), AgePhrase(r.Date, now))
		}
	}
	return b.String()
}
