package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/turbostar190/birthify/internal/domain"
)

type BroadcastState string

const (
	BStateIdle    BroadcastState = "idle"
	BStateEnter   BroadcastState = "enter_text"
	BStateConfirm BroadcastState = "confirm"
)

const (
	BroadcastSendBtn   = "Invia"
	BroadcastCancelBtn = "Annulla invio"
)

type BroadcastSender interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, fileID string, caption string) error
}

type BroadcastStat struct {
	Total     int
	Sent      int
	Failed    int
	CreatedAt time.Time
}

type BroadcastStatRepository interface {
	Save(stat BroadcastStat) error
	ListRecent(n int) ([]BroadcastStat, error)
}

type BroadcastSession struct {
	State       BroadcastState
	Text        string
	PhotoFileID string
	Caption     string
}

func (s *BroadcastSession) reset() {
	s.State = BStateIdle
	s.Text = ""
	s.PhotoFileID = ""
	s.Caption = ""
}

// Broadcast lets an admin send an announcement (text or photo) to every
// chat that ever talked to the bot.
type Broadcast struct {
	Users  domain.UserRegistry
	Sender BroadcastSender
	Stats  BroadcastStatRepository
}

func NewBroadcast(users domain.UserRegistry, sender BroadcastSender, stats BroadcastStatRepository) *Broadcast {
	return &Broadcast{Users: users, Sender: sender, Stats: stats}
}

func (u *Broadcast) Start(s *BroadcastSession) string {
	s.reset()
	s.State = BStateEnter
	return "Invia il testo dell'annuncio oppure una foto con didascalia."
}

func (u *Broadcast) ReceiveText(s *BroadcastSession, text string) (string, []string, error) {
	if strings.TrimSpace(text) == "" {
		return "Il testo non può essere vuoto. Invia il testo dell'annuncio:", nil, errors.New("empty")
	}
	s.Text = text
	s.PhotoFileID = ""
	s.Caption = ""
	s.State = BStateConfirm
	return "Confermi l'invio dell'annuncio?", []string{BroadcastSendBtn, BroadcastCancelBtn}, nil
}

func (u *Broadcast) ReceivePhoto(s *BroadcastSession, fileID, caption string) (string, []string) {
	if strings.TrimSpace(fileID) == "" {
		return "Non sono riuscito a leggere l'immagine. Inviala di nuovo.", nil
	}
	s.PhotoFileID = fileID
	s.Caption = caption
	s.Text = ""
	s.State = BStateConfirm
	return "Confermi l'invio dell'annuncio con foto?", []string{BroadcastSendBtn, BroadcastCancelBtn}
}

func (u *Broadcast) ConfirmSend(s *BroadcastSession, cmd string) (string, error) {
	if cmd == BroadcastCancelBtn {
		s.reset()
		return "Annuncio annullato.", nil
	}
	if cmd != BroadcastSendBtn {
		return "Scegli: Invia oppure Annulla invio", nil
	}
	ids, err := u.Users.ListChatIDs()
	if err != nil {
		return "Impossibile leggere la lista degli utenti", err
	}
	var sent, failed int
	for _, id := range ids {
		var sendErr error
		if s.PhotoFileID != "" {
			sendErr = u.Sender.SendPhoto(id, s.PhotoFileID, s.Caption)
		} else {
			sendErr = u.Sender.SendText(id, s.Text)
		}
		if sendErr != nil {
			failed++
			continue
		}
		sent++
	}
	s.reset()
	_ = u.Stats.Save(BroadcastStat{Total: len(ids), Sent: sent, Failed: failed})
	return fmt.Sprintf("Annuncio inviato: %d riusciti, %d falliti.", sent, failed), nil
}

func (u *Broadcast) StatsSummary(n int) string {
	stats, err := u.Stats.ListRecent(n)
	if err != nil || len(stats) == 0 {
		return "Nessun annuncio inviato finora"
	}
	var b strings.Builder
	b.WriteString("Ultimi annunci:\n")
	for i, s := range stats {
		fmt.Fprintf(&b, "%d) %s — totale: %d, inviati: %d, errori: %d\n", i+1, s.CreatedAt.Format("2006-01-02 15:04"), s.Total, s.Sent, s.Failed)
	}
	return b.String()
}
