// Package dates converts the date and time phrases people type into a
// chat box ("next friday", "3pm", "end of day") into canonical
// YYYY-MM-DD and HH:MM strings.
//
// Every function takes "now" explicitly and reads it in its own
// location, so results are deterministic. Unrecognized input never
// errors: dates fall back to tomorrow and times to 09:00. The Parse
// variants report whether that fallback was taken so callers can ask
// the user to confirm a value that may have been a typo.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical date format.
const DateLayout = "2006-01-02"

// DefaultTime is used when a time phrase is missing or unparseable.
const DefaultTime = "09:00"

var (
	reInDays  = regexp.MustCompile(`^in\s+(\d+)\s+days?$`)
	reOrdinal = regexp.MustCompile(`^(\d{1,2})(?:st|nd|rd|th)$`)
	reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	re12Hour  = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)$`)
	re24Hour  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	reBare    = regexp.MustCompile(`^(\d{1,2})$`)
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var namedTimes = map[string]string{
	"morning":    "09:00",
	"noon":       "12:00",
	"midday":     "12:00",
	"afternoon":  "14:00",
	"evening":    "18:00",
	"night":      "20:00",
	"tonight":    "20:00",
	"end of day": "17:00",
	"eod":        "17:00",
	"cob":        "17:00",
}

// Layouts tried, in order, for free-form dates that match none of the
// phrase rules. Layouts without a year are resolved against now.
var fullLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
	"1/2",
	"01/02",
}

// NormalizeDate converts a date phrase to YYYY-MM-DD relative to now.
func NormalizeDate(text string, now time.Time) string {
	d, _ := ParseDate(text, now)
	return d
}

// ParseDate is NormalizeDate that also reports whether the phrase was
// understood. When ok is false the returned date is tomorrow.
func ParseDate(text string, now time.Time) (date string, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimPrefix(s, "on ")
	today := midnight(now)

	switch s {
	case "today":
		return today.Format(DateLayout), true
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(DateLayout), true
	case "next week":
		return today.AddDate(0, 0, 7).Format(DateLayout), true
	}

	if rest, found := strings.CutPrefix(s, "next "); found {
		if wd, ok := weekdays[strings.TrimSpace(rest)]; ok {
			return nextWeekday(today, wd).Format(DateLayout), true
		}
	}
	// "friday" and "this friday" follow the same rule as "next friday".
	if wd, ok := weekdays[strings.TrimPrefix(s, "this ")]; ok {
		return nextWeekday(today, wd).Format(DateLayout), true
	}

	if m := reInDays.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return today.AddDate(0, 0, n).Format(DateLayout), true
		}
	}

	if m := reOrdinal.FindStringSubmatch(strings.TrimPrefix(s, "the ")); m != nil {
		day, _ := strconv.Atoi(m[1])
		if d, ok := ordinalDay(today, day); ok {
			return d.Format(DateLayout), true
		}
	}

	if reISODate.MatchString(s) {
		return s, true
	}

	if d, ok := parseFreeForm(strings.TrimSpace(text), today); ok {
		return d.Format(DateLayout), true
	}

	return today.AddDate(0, 0, 1).Format(DateLayout), false
}

// NormalizeTime converts a time phrase to 24-hour HH:MM.
func NormalizeTime(text string) string {
	t, _ := ParseTime(text)
	return t
}

// ParseTime is NormalizeTime that also reports whether the phrase was
// understood. When ok is false the returned time is DefaultTime.
func ParseTime(text string) (hhmm string, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimPrefix(s, "at ")

	if t, found := namedTimes[s]; found {
		return t, true
	}

	if m := re12Hour.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		if h >= 1 && h <= 12 && min <= 59 {
			pm := strings.HasPrefix(m[3], "p")
			switch {
			case pm && h != 12:
				h += 12
			case !pm && h == 12:
				h = 0
			}
			return formatHM(h, min), true
		}
	}

	if m := re24Hour.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h <= 23 && min <= 59 {
			return formatHM(h, min), true
		}
	}

	if m := reBare.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		if h <= 23 {
			return formatHM(h, 0), true
		}
	}

	return DefaultTime, false
}

// nextWeekday returns the nearest target weekday strictly after today.
// When today is the target, that is a week out.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	ahead := int(target) - int(today.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return today.AddDate(0, 0, ahead)
}

// ordinalDay places a bare day-of-month in the current month unless it
// has already passed, then in the following month. Months too short
// for the day are skipped.
func ordinalDay(today time.Time, day int) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, month, _ := today.Date()
	for i := 0; i < 3; i++ {
		d := time.Date(year, month+time.Month(i), day, 0, 0, 0, 0, today.Location())
		if d.Day() != day {
			continue // rolled over, e.g. the 31st in a 30-day month
		}
		if !d.Before(today) {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseFreeForm(s string, today time.Time) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range fullLayouts {
		if t, err := time.ParseInLocation(layout, s, today.Location()); err == nil {
			return midnight(t), true
		}
	}
	for _, layout := range yearlessLayouts {
		t, err := time.ParseInLocation(layout, s, today.Location())
		if err != nil {
			continue
		}
		d := time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d, true
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatHM(h, m int) string {
	return fmt.Sprintf("%02d:%02d", h, m)
}
