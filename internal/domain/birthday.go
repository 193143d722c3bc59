package domain

import "time"

type Birthday struct {
	ID      int64
	OwnerID int64
	Date    time.Time
	Name    string
}

// BirthdayMatch pairs a stored birthday with the chat id of its owner.
type BirthdayMatch struct {
	ChatID   int64
	Birthday Birthday
}

type BirthdayRepository interface {
	// ListByOwner returns the owner's birthdays in month-then-day order,
	// ignoring the year.
	ListByOwner(ownerID int64) ([]Birthday, error)
	// FindTodayMatches returns every birthday falling on the given
	// month/day together with the owner's chat id.
	FindTodayMatches(month time.Month, day int) ([]BirthdayMatch, error)
	Insert(ownerID int64, date time.Time, name string) (int64, error)
	// DeleteOwned removes the record only if it belongs to the user with
	// the given chat id. The ownership check and the delete are a single
	// atomic operation.
	DeleteOwned(recordID, chatID int64) (bool, error)
	// CountByMonth returns how many birthdays are stored per calendar
	// month, index 0 = January.
	CountByMonth() ([12]int, error)
}
