package usecase

import (
	"fmt"
	"strings"

	"github.com/turbostar190/birthify/internal/domain"
)

var monthLabels = [12]string{"Gen", "Feb", "Mar", "Apr", "Mag", "Giu", "Lug", "Ago", "Set", "Ott", "Nov", "Dic"}

// Stats aggregates how the stored birthdays spread over the calendar
// months, for the admin chart.
type Stats struct {
	birthdays domain.BirthdayRepository
}

func NewStats(birthdays domain.BirthdayRepository) *Stats {
	return &Stats{birthdays: birthdays}
}

// GraphData returns month labels and counts in calendar order.
func (u *Stats) GraphData() ([]string, []int, error) {
	counts, err := u.birthdays.CountByMonth()
	if err != nil {
		return nil, nil, err
	}
	labels := make([]string, 0, 12)
	values := make([]int, 0, 12)
	for i, label := range monthLabels {
		labels = append(labels, label)
		values = append(values, counts[i])
	}
	return labels, values, nil
}

// Chart renders a text fallback when the PNG chart cannot be produced.
func (u *Stats) Chart() (string, error) {
	counts, err := u.birthdays.CountByMonth()
	if err != nil {
		return "", err
	}
	max := 0
	total := 0
	for _, c := range counts {
		total += c
		if c > max {
			max = c
		}
	}
	if total == 0 {
		return "Nessun compleanno memorizzato", nil
	}
	var b strings.Builder
	b.WriteString("Compleanni per mese:\n")
	for i, label := range monthLabels {
		fmt.Fprintf(&b, "- %s: %d %s\n", label, counts[i], bar20(counts[i], max))
	}
	return b.String(), nil
}

func bar20(val, max int) string {
	if max <= 0 {
		return ""
	}
	filled := (20 * val) / max
	if filled < 0 {
		filled = 0
	}
	if filled > 20 {
		filled = 20
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 20-filled) + "]"
}
