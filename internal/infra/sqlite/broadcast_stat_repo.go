package sqlite

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/turbostar190/birthify/internal/usecase"
)

// BroadcastStatRepo persists one row per sent announcement so the admin
// summary survives restarts.
type BroadcastStatRepo struct {
	db *sql.DB
}

func NewBroadcastStatRepo(dsn string) (*BroadcastStatRepo, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS announcement_stats (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    total INTEGER NOT NULL,
    sent INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`)
	if err != nil {
		return nil, err
	}
	return &BroadcastStatRepo{db: db}, nil
}

func (r *BroadcastStatRepo) Save(stat usecase.BroadcastStat) error {
	created := stat.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO announcement_stats(total, sent, failed, created_at) VALUES(?,?,?,?)`,
		stat.Total, stat.Sent, stat.Failed, created)
	return err
}

// ListRecent returns up to n announcement stats, newest first.
func (r *BroadcastStatRepo) ListRecent(n int) ([]usecase.BroadcastStat, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := r.db.Query(`SELECT total, sent, failed, created_at FROM announcement_stats ORDER BY created_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.BroadcastStat
	for rows.Next() {
		var s usecase.BroadcastStat
		if err := rows.Scan(&s.Total, &s.Sent, &s.Failed, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
