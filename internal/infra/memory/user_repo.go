package memory

import "sync"

type UserRepo struct {
	mu     sync.RWMutex
	byChat map[int64]int64
	nextID int64
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byChat: make(map[int64]int64), nextID: 1}
}

func (r *UserRepo) EnsureUser(chatID int64) (bool, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byChat[chatID]; ok {
		return false, id, nil
	}
	id := r.nextID
	r.nextID++
	r.byChat[chatID] = id
	return true, id, nil
}

func (r *UserRepo) ListChatIDs() ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]int64, 0, len(r.byChat))
	for id := range r.byChat {
		res = append(res, id)
	}
	return res, nil
}

func (r *UserRepo) idByChat(chatID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byChat[chatID]
	return id, ok
}

func (r *UserRepo) chatByID(id int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for chatID, uid := range r.byChat {
		if uid == id {
			return chatID, true
		}
	}
	return 0, false
}
