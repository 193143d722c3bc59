package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/turbostar190/birthify/internal/domain"
)

// Dates are stored as YYYY-MM-DD text so that substr(date, 6) yields the
// MM-DD part used for month/day ordering and matching.
const dateLayout = "2006-01-02"

type BirthdayRepo struct {
	db *sql.DB
}

func NewBirthdayRepo(dsn string) (*BirthdayRepo, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dsn))
	if err != nil {
		return nil, err
	}
	if err := migrateBirthdays(db); err != nil {
		return nil, err
	}
	return &BirthdayRepo{db: db}, nil
}

// foreign_keys is a per-connection pragma in SQLite, so it has to travel
// in the DSN to reach every connection the pool opens. Without it an
// insert with a dangling owner_id would silently succeed.
func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func migrateBirthdays(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS birthdays (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL REFERENCES users(id),
    date TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_birthdays_owner_id ON birthdays(owner_id);
`)
	return err
}

func (r *BirthdayRepo) ListByOwner(ownerID int64) ([]domain.Birthday, error) {
	rows, err := r.db.Query(`SELECT id, owner_id, date, name FROM birthdays WHERE owner_id = ? ORDER BY substr(date, 6), id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Birthday, 0, 16)
	for rows.Next() {
		b, err := scanBirthday(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BirthdayRepo) FindTodayMatches(month time.Month, day int) ([]domain.BirthdayMatch, error) {
	monthDay := fmt.Sprintf("%02d-%02d", int(month), day)
	rows, err := r.db.Query(`
SELECT u.chat_id, b.id, b.owner_id, b.date, b.name
FROM users u JOIN birthdays b ON b.owner_id = u.id
WHERE substr(b.date, 6) = ?`, monthDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.BirthdayMatch, 0, 8)
	for rows.Next() {
		var m domain.BirthdayMatch
		var date string
		if err := rows.Scan(&m.ChatID, &m.Birthday.ID, &m.Birthday.OwnerID, &date, &m.Birthday.Name); err != nil {
			return nil, err
		}
		if m.Birthday.Date, err = time.ParseInLocation(dateLayout, date, time.Local); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *BirthdayRepo) Insert(ownerID int64, date time.Time, name string) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO birthdays(owner_id, date, name, created_at) VALUES(?,?,?,?)`,
		ownerID, date.Format(dateLayout), name, time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteOwned removes the record only when it belongs to the requesting
// chat. Ownership check and delete are one statement, so a concurrent
// request cannot slip between them.
func (r *BirthdayRepo) DeleteOwned(recordID, chatID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM birthdays WHERE id = ? AND owner_id = (SELECT id FROM users WHERE chat_id = ?)`, recordID, chatID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BirthdayRepo) CountByMonth() ([12]int, error) {
	var counts [12]int
	rows, err := r.db.Query(`SELECT CAST(substr(date, 6, 2) AS INTEGER), COUNT(*) FROM birthdays GROUP BY 1`)
	if err != nil {
		return counts, err
	}
	defer rows.Close()
	for rows.Next() {
		var month, n int
		if err := rows.Scan(&month, &n); err != nil {
			return counts, err
		}
		if month >= 1 && month <= 12 {
			counts[month-1] = n
		}
	}
	return counts, rows.Err()
}

func scanBirthday(rows *sql.Rows) (domain.Birthday, error) {
	var b domain.Birthday
	var date string
	if err := rows.Scan(&b.ID, &b.OwnerID, &date, &b.Name); err != nil {
		return b, err
	}
	var err error
	b.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
	return b, err
}
