package usecase

import "fmt"

// Fixed Italian unit words, no other language is supported.
type unitForms struct {
	sing string
	plur string
}

var itUnits = map[Unit]unitForms{
	UnitYear:  {sing: "anno", plur: "anni"},
	UnitMonth: {sing: "mese", plur: "mesi"},
	UnitDay:   {sing: "giorno", plur: "giorni"},
}

func phrase(n int, unit Unit, plural bool) string {
	forms := itUnits[unit]
	word := forms.sing
	if plural {
		word = forms.plur
	}
	return fmt.Sprintf("%d %s", n, word)
}
