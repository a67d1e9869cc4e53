package schedule

import (
	"testing"
	"time"

	"churchmap/internal/domain/entities"
)

// 2024-06-02 is a Sunday.
func sundayAt(hour, minute int) time.Time {
	return time.Date(2024, time.June, 2, hour, minute, 0, 0, time.UTC)
}

func TestFieldFor(t *testing.T) {
	mt := entities.MassTimes{Weekdays: "wd", Saturday: "sat", Sunday: "sun"}
	tests := []struct {
		day  time.Weekday
		want string
	}{
		{time.Sunday, "sun"},
		{time.Monday, "wd"},
		{time.Wednesday, "wd"},
		{time.Friday, "wd"},
		{time.Saturday, "sat"},
	}
	for _, tt := range tests {
		if got := FieldFor(tt.day, mt); got != tt.want {
			t.Errorf("FieldFor(%v) = %q, want %q", tt.day, got, tt.want)
		}
	}
}

func TestParseTimes(t *testing.T) {
	day := sundayAt(0, 0)
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"empty", "", nil},
		{"two times", "8:00, 18:00", []string{"08:00", "18:00"}},
		{"skips garbage", "5:30, abc, 7:xx, 9, 19:15", []string{"05:30", "19:15"}},
		{"skips out of range", "24:00, 12:60, 23:59", []string{"23:59"}},
		{"trailing comma", "6:00,", []string{"06:00"}},
		{"seconds ignored", "8:00:00", []string{"08:00"}},
		{"empty fields are zero", ":30, 7:", []string{"00:30", "07:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimes(tt.field, day)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseTimes(%q) returned %d times, want %d", tt.field, len(got), len(tt.want))
			}
			for i, g := range got {
				if g.Format("15:04") != tt.want[i] {
					t.Errorf("time %d = %s, want %s", i, g.Format("15:04"), tt.want[i])
				}
				if g.Year() != 2024 || g.Day() != 2 {
					t.Errorf("time %d landed on the wrong date: %v", i, g)
				}
			}
		})
	}
}

func TestNext_SundayMorning(t *testing.T) {
	mt := entities.MassTimes{Sunday: "8:00, 18:00"}
	now := sundayAt(7, 0)

	next, ok := Next(mt, now, 2*time.Hour)
	if !ok {
		t.Fatal("Expected an occurrence within 2 hours")
	}
	if !next.Equal(sundayAt(8, 0)) {
		t.Errorf("Expected 08:00, got %v", next)
	}

	if _, ok := Next(mt, now, HoursToDuration(0.5)); ok {
		t.Error("Expected no occurrence within 30 minutes")
	}
}

func TestUpcoming_BoundaryRules(t *testing.T) {
	mt := entities.MassTimes{Sunday: "7:00, 9:00"}
	now := sundayAt(7, 0)

	got := Upcoming(mt, now, 2*time.Hour)
	if len(got) != 1 || !got[0].Equal(sundayAt(9, 0)) {
		t.Errorf("Expected only 09:00 (now excluded, limit included), got %v", got)
	}
}

func TestUpcoming_RollsIntoTomorrow(t *testing.T) {
	// Saturday 23:00; tomorrow is Sunday.
	now := time.Date(2024, time.June, 1, 23, 0, 0, 0, time.UTC)
	mt := entities.MassTimes{Weekdays: "5:00", Saturday: "6:00", Sunday: "5:30, 7:00"}

	got := Upcoming(mt, now, 12*time.Hour)
	if len(got) != 2 {
		t.Fatalf("Expected 2 Sunday occurrences, got %v", got)
	}
	if got[0].Weekday() != time.Sunday || got[0].Format("15:04") != "05:30" {
		t.Errorf("Expected Sunday 05:30 first, got %v", got[0])
	}
}

func TestUpcoming_SortedAcrossDays(t *testing.T) {
	// Friday 20:00; tomorrow is Saturday.
	now := time.Date(2024, time.May, 31, 20, 0, 0, 0, time.UTC)
	mt := entities.MassTimes{Weekdays: "21:00, 20:30", Saturday: "6:00"}

	got := Upcoming(mt, now, 24*time.Hour)
	want := []string{"20:30", "21:00", "06:00"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d occurrences, got %v", len(want), got)
	}
	for i := range want {
		if got[i].Format("15:04") != want[i] {
			t.Errorf("occurrence %d = %s, want %s", i, got[i].Format("15:04"), want[i])
		}
	}
}
