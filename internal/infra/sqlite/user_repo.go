package sqlite

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(dsn string) (*UserRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := migrateUsers(db); err != nil {
		return nil, err
	}
	return &UserRepo{db: db}, nil
}

func migrateUsers(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    chat_id INTEGER NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);
`)
	return err
}

// EnsureUser registers the chat on first contact and reports whether it
// was new. The upsert keeps repeated calls from ever creating a duplicate.
func (r *UserRepo) EnsureUser(chatID int64) (bool, int64, error) {
	res, err := r.db.Exec(`INSERT INTO users(chat_id, created_at) VALUES(?, ?) ON CONFLICT(chat_id) DO NOTHING`, chatID, time.Now())
	if err != nil {
		return false, 0, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	var id int64
	if err := r.db.QueryRow(`SELECT id FROM users WHERE chat_id = ?`, chatID).Scan(&id); err != nil {
		return false, 0, err
	}
	return inserted > 0, id, nil
}

func (r *UserRepo) ListChatIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT chat_id FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0, 128)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
