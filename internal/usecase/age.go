package usecase

import "time"

type Unit int

const (
	UnitYear Unit = iota
	UnitMonth
	UnitDay
)

// Elapsed returns the whole time passed between birth and now expressed in
// the largest unit with a non-zero count: years, then months, then days.
// A birth date equal to now yields (0, UnitDay, plural).
func Elapsed(birth, now time.Time) (int, Unit, bool) {
	if y := YearsBetween(birth, now); y >= 1 {
		return y, UnitYear, y != 1
	}
	if m := monthsBetween(birth, now); m >= 1 {
		return m, UnitMonth, m != 1
	}
	d := daysBetween(birth, now)
	return d, UnitDay, d != 1
}

// YearsBetween is the true calendar-year difference: one less than the
// plain year subtraction until this year's anniversary has passed.
func YearsBetween(birth, now time.Time) int {
	y := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		y--
	}
	if y < 0 {
		y = 0
	}
	return y
}

func monthsBetween(birth, now time.Time) int {
	m := (now.Year()-birth.Year())*12 + int(now.Month()) - int(birth.Month())
	if now.Day() < birth.Day() {
		m--
	}
	if m < 0 {
		m = 0
	}
	return m
}

func daysBetween(birth, now time.Time) int {
	a := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	d := int(b.Sub(a) / (24 * time.Hour))
	if d < 0 {
		d = 0
	}
	return d
}

// AgePhrase renders the elapsed time since birth with the Italian unit
// word, e.g. "23 anni", "1 mese", "0 giorni".
func AgePhrase(birth, now time.Time) string {
	n, unit, plural := Elapsed(birth, now)
	return phrase(n, unit, plural)
}
