package utils

import "time"

// DateLayout is the wire format of calendar dates (start_date, end_date).
const DateLayout = "2006-01-02"

// LoadLocation falls back to UTC when the zone database has no entry for name.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// DateOnly drops the clock part of t, keeping its calendar day in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func Today(loc *time.Location) time.Time {
	return DateOnly(time.Now(), loc)
}

func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
