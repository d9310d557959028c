package util

import "time"

const dayLayout = "2006-01-02"

// DayKey converts a millisecond unix timestamp to a UTC "YYYY-MM-DD" key.
func DayKey(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(dayLayout)
}

// NextDayKey returns the day key following the given "YYYY-MM-DD" key.
func NextDayKey(day string) (string, error) {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, 1).Format(dayLayout), nil
}
