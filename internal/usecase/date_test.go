package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthdateValid(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		text string
		want time.Time
	}{
		{"15/12/2000", date(2000, time.December, 15)},
		{"01/01/1900", date(1900, time.January, 1)},
		{"31/01/2020", date(2020, time.January, 31)},
		{"30/04/2020", date(2020, time.April, 30)},
		{"29/02/2000", date(2000, time.February, 29)}, // century leap year
		{"29/02/2024", date(2024, time.February, 29)},
		{"31/08/2026", date(2026, time.August, 31)}, // today is allowed
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseBirthdate(tt.text, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseBirthdateInvalid(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)

	invalid := []string{
		"",
		"ciao",
		"15-12-2000",
		"15/12/00",
		"1/1/2000",
		"32/01/2000",
		"00/01/2000",
		"15/13/2000",
		"15/00/2000",
		"31/04/2020",
		"31/06/2020",
		"30/02/2020",
		"29/02/2023",
		"29/02/1900", // century exception: not a leap year
		"29/02/2100",
		"15/12/1899", // pre-1900
	}
	for _, text := range invalid {
		t.Run(text, func(t *testing.T) {
			_, err := ParseBirthdate(text, now)
			assert.ErrorIs(t, err, ErrBadDateFormat)
		})
	}
}

func TestParseBirthdateFuture(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)

	for _, text := range []string{"01/09/2026", "01/01/2030", "15/12/9999"} {
		_, err := ParseBirthdate(text, now)
		assert.ErrorIs(t, err, ErrFutureDate, text)
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, isLeapYear(2000))
	assert.True(t, isLeapYear(2024))
	assert.False(t, isLeapYear(1900))
	assert.False(t, isLeapYear(2100))
	assert.False(t, isLeapYear(2023))
}
