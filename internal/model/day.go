package model

import (
	"fmt"
	"strings"

	"taskman/internal/apperr"
)

// Day is one of the seven weekdays. The set is closed and ordered; the
// canonical wire string is the Russian day name, which is also the key
// format of the per-workspace task files.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
	"воскресенье",
}

// Days returns the seven days in week order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// Valid reports whether d is one of the seven defined days.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the canonical wire name of the day.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Title returns the day name with the first letter upper-cased, for display.
func (d Day) Title() string {
	name := d.String()
	r := []rune(name)
	if len(r) == 0 {
		return name
	}
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// ParseDay resolves a day by its wire name. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseDay(s string) (Day, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range dayNames {
		if name == key {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized day %q", apperr.ErrValidation, s)
}
