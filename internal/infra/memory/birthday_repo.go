package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/turbostar190/birthify/internal/domain"
)

// BirthdayRepo mirrors the sqlite repo for tests and sqlite-less runs.
// It needs the user repo to resolve chat ids for the ownership checks.
type BirthdayRepo struct {
	mu     sync.RWMutex
	users  *UserRepo
	rows   []domain.Birthday
	nextID int64
}

func NewBirthdayRepo(users *UserRepo) *BirthdayRepo {
	return &BirthdayRepo{users: users, rows: make([]domain.Birthday, 0, 16), nextID: 1}
}

func (r *BirthdayRepo) ListByOwner(ownerID int64) ([]domain.Birthday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Birthday, 0, len(r.rows))
	for _, b := range r.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Month() != out[j].Date.Month() {
			return out[i].Date.Month() < out[j].Date.Month()
		}
		return out[i].Date.Day() < out[j].Date.Day()
	})
	return out, nil
}

func (r *BirthdayRepo) FindTodayMatches(month time.Month, day int) ([]domain.BirthdayMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.BirthdayMatch, 0, 8)
	for _, b := range r.rows {
		if b.Date.Month() != month || b.Date.Day() != day {
			continue
		}
		chatID, ok := r.users.chatByID(b.OwnerID)
		if !ok {
			continue
		}
		out = append(out, domain.BirthdayMatch{ChatID: chatID, Birthday: b})
	}
	return out, nil
}

func (r *BirthdayRepo) Insert(ownerID int64, date time.Time, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users.chatByID(ownerID); !ok {
		return 0, fmt.Errorf("owner %d does not exist", ownerID)
	}
	id := r.nextID
	r.nextID++
	r.rows = append(r.rows, domain.Birthday{ID: id, OwnerID: ownerID, Date: date, Name: name})
	return id, nil
}

func (r *BirthdayRepo) DeleteOwned(recordID, chatID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ownerID, ok := r.users.idByChat(chatID)
	if !ok {
		return false, nil
	}
	for i, b := range r.rows {
		if b.ID == recordID && b.OwnerID == ownerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *BirthdayRepo) CountByMonth() ([12]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var counts [12]int
	for _, b := range r.rows {
		counts[int(b.Date.Month())-1]++
	}
	return counts, nil
}
