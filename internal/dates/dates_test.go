package dates

import (
	"testing"
	"time"
)

// 2026-10-14 is a Wednesday.
var wednesday = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		now  time.Time
		want string
	}{
		{"today", wednesday, "2026-10-14"},
		{"Tomorrow", wednesday, "2026-10-15"},
		{"next week", wednesday, "2026-10-21"},
		{"next friday", wednesday, "2026-10-16"},
		{"next monday", wednesday, "2026-10-19"},
		{"next wednesday", wednesday, "2026-10-21"},
		{"next sat", wednesday, "2026-10-17"},
		{"friday", wednesday, "2026-10-16"},
		{"this thursday", wednesday, "2026-10-15"},
		{"on tuesday", wednesday, "2026-10-20"},
		{"in 3 days", wednesday, "2026-10-17"},
		{"in 1 day", wednesday, "2026-10-15"},
		{"in 30 days", wednesday, "2026-11-13"},
		{"2027-01-05", wednesday, "2027-01-05"},
		{"October 20, 2026", wednesday, "2026-10-20"},
		{"Dec 1", wednesday, "2026-12-01"},
		{"March 3", wednesday, "2027-03-03"},
		{"11/2/2026", wednesday, "2026-11-02"},
		{"10/20", wednesday, "2026-10-20"},
		{"2026-10-20T08:00:00Z", wednesday, "2026-10-20"},
		{"whenever", wednesday, "2026-10-15"},
		{"", wednesday, "2026-10-15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeDate(tt.in, tt.now); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextWeekdayStrictlyAfterToday(t *testing.T) {
	// Every day of one week, asking for every weekday.
	start := time.Date(2026, time.October, 11, 10, 0, 0, 0, time.UTC) // Sunday
	names := []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

	for i := 0; i < 7; i++ {
		now := start.AddDate(0, 0, i)
		for _, name := range names {
			got := NormalizeDate("next "+name, now)
			d, err := time.Parse(DateLayout, got)
			if err != nil {
				t.Fatalf("unparseable output %q", got)
			}
			days := int(d.Sub(midnight(now)).Hours() / 24)
			if days < 1 || days > 7 {
				t.Errorf("next %s from %s = %s (%d days)", name, now.Weekday(), got, days)
			}
			if d.Weekday().String() != titleCase(name) {
				t.Errorf("next %s from %s landed on %s", name, now.Weekday(), d.Weekday())
			}
		}
	}
}

func TestNextMondayOnMonday(t *testing.T) {
	monday := time.Date(2026, time.October, 12, 8, 0, 0, 0, time.UTC)
	if got := NormalizeDate("next monday", monday); got != "2026-10-19" {
		t.Errorf("next monday on a Monday = %q, want 2026-10-19", got)
	}
}

func TestOrdinalDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		in   string
		want string
	}{
		{"on the 15th rolls forward", time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC), "10th", "2026-04-10"},
		{"on the 5th stays", time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC), "10th", "2026-03-10"},
		{"same day stays", time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC), "10th", "2026-03-10"},
		{"december wraps year", time.Date(2026, time.December, 20, 9, 0, 0, 0, time.UTC), "3rd", "2027-01-03"},
		{"31st skips short month", time.Date(2026, time.April, 5, 9, 0, 0, 0, time.UTC), "31st", "2026-05-31"},
		{"1st", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), "1st", "2026-11-01"},
		{"22nd", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), "22nd", "2026-10-22"},
		{"with article", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), "the 10th", "2026-11-10"},
		{"with on and article", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), "on the 20th", "2026-10-20"},
		{"article is case-insensitive", time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC), "The 3rd", "2026-11-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.in, tt.now); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateReportsDefault(t *testing.T) {
	if _, ok := ParseDate("tomorow", wednesday); ok {
		t.Error("typo reported as understood")
	}
	if _, ok := ParseDate("the 10th", wednesday); !ok {
		t.Error("the 10th reported as defaulted")
	}
	if _, ok := ParseDate("tomorrow", wednesday); !ok {
		t.Error("tomorrow reported as defaulted")
	}
}

func TestDateUsesNowLocation(t *testing.T) {
	// 02:00 UTC on the 15th is still the 14th in Los Angeles.
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2026, time.October, 15, 2, 0, 0, 0, time.UTC).In(la)
	if got := NormalizeDate("today", now); got != "2026-10-14" {
		t.Errorf("today in LA = %q, want 2026-10-14", got)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2:30pm", "14:30"},
		{"2:30 PM", "14:30"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"12:15am", "00:15"},
		{"9am", "09:00"},
		{"11 p.m.", "23:00"},
		{"at 3pm", "15:00"},
		{"morning", "09:00"},
		{"noon", "12:00"},
		{"Midday", "12:00"},
		{"afternoon", "14:00"},
		{"evening", "18:00"},
		{"night", "20:00"},
		{"tonight", "20:00"},
		{"end of day", "17:00"},
		{"EOD", "17:00"},
		{"cob", "17:00"},
		{"14:45", "14:45"},
		{"7:05", "07:05"},
		{"14", "14:00"},
		{"0", "00:00"},
		{"25", "09:00"},
		{"13pm", "09:00"},
		{"24:00", "09:00"},
		{"garbage", "09:00"},
		{"", "09:00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeTime(tt.in); got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimeReportsDefault(t *testing.T) {
	if _, ok := ParseTime("lunchish"); ok {
		t.Error("unparseable time reported as understood")
	}
	if got, ok := ParseTime("9am"); !ok || got != "09:00" {
		t.Errorf("ParseTime(9am) = %q, %v", got, ok)
	}
}

func titleCase(s string) string {
	return string(s[0]-'a'+'A') + s[1:]
}
