package usecase

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrBadDateFormat = errors.New("date does not match gg/mm/aaaa")
	ErrFutureDate    = errors.New("date is in the future")
)

var dateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ParseBirthdate validates a gg/mm/aaaa reply and returns the date at
// midnight in now's location. Years before 1900 are rejected, the day must
// exist in the named month, 29 February only on real leap years (1900 is
// not one, 2000 is), and the date must not be after today.
func ParseBirthdate(text string, now time.Time) (time.Time, error) {
	m := dateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, ErrBadDateFormat
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	if year < 1900 || month < 1 || month > 12 || day < 1 || day > daysInMonth(month, year) {
		return time.Time{}, ErrBadDateFormat
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.After(today) {
		return time.Time{}, ErrFutureDate
	}
	return date, nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 0
}
