package clock

import "time"

// DateLayout is the date-only format the snapshot persists. Expiry and
// inactivity arithmetic works on whole days, never on clock time.
const DateLayout = "2006-01-02"

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysSince returns the number of whole days from then to now, truncating
// both to midnight UTC first. Negative when then is in the future.
func DaysSince(now, then time.Time) int {
	nowDay := truncateToDay(now)
	thenDay := truncateToDay(then)
	return int(nowDay.Sub(thenDay).Hours() / 24)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
