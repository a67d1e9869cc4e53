// Package schedule answers "when is the next mass?" for a church's weekly
// schedule. Schedules are free text per day kind (weekdays, Saturday,
// Sunday), each a comma-separated list of H:MM times.
package schedule

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"churchmap/internal/domain/entities"
)

// daysAhead is how many calendar days are scanned: today and tomorrow.
const daysAhead = 2

// FieldFor selects the schedule text that applies on the given weekday.
func FieldFor(day time.Weekday, mt entities.MassTimes) string {
	switch day {
	case time.Sunday:
		return mt.Sunday
	case time.Saturday:
		return mt.Saturday
	default:
		return mt.Weekdays
	}
}

// ParseTimes turns a schedule field into concrete times on day's date, in
// day's location. Tokens that are not two integers separated by a colon, or
// that fall outside 0:00–23:59, are skipped; the rest still count.
func ParseTimes(field string, day time.Time) []time.Time {
	if strings.TrimSpace(field) == "" {
		return nil
	}

	y, m, d := day.Date()
	var times []time.Time
	for _, token := range strings.Split(field, ",") {
		hour, minute, ok := parseClock(strings.TrimSpace(token))
		if !ok {
			continue
		}
		times = append(times, time.Date(y, m, d, hour, minute, 0, 0, day.Location()))
	}
	return times
}

// parseClock reads "H:MM". Fields after the minutes are ignored ("8:00:00"
// is 08:00) and an empty hour or minute counts as zero (":30" is 00:30). A
// token without a colon is not a time.
func parseClock(token string) (hour, minute int, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	hour, ok = clockField(parts[0])
	if !ok {
		return 0, 0, false
	}
	minute, ok = clockField(parts[1])
	if !ok {
		return 0, 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func clockField(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Upcoming lists every occurrence today or tomorrow that is strictly after
// now and no later than now+horizon, earliest first.
func Upcoming(mt entities.MassTimes, now time.Time, horizon time.Duration) []time.Time {
	limit := now.Add(horizon)

	var out []time.Time
	for i := 0; i < daysAhead; i++ {
		day := now.AddDate(0, 0, i)
		for _, t := range ParseTimes(FieldFor(day.Weekday(), mt), day) {
			if t.After(now) && !t.After(limit) {
				out = append(out, t)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Next returns the earliest occurrence Upcoming would report.
func Next(mt entities.MassTimes, now time.Time, horizon time.Duration) (time.Time, bool) {
	upcoming := Upcoming(mt, now, horizon)
	if len(upcoming) == 0 {
		return time.Time{}, false
	}
	return upcoming[0], true
}

// HoursToDuration converts a fractional hour horizon such as 0.5.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
