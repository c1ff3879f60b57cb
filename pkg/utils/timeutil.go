package utils

import "time"

// HourBucket truncates a time to the start of its hour. Scrape results
// are cached per (ticker, hour bucket) so repeated lookups within the
// same hour hit the cache.
func HourBucket(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// DayKey formats a time as its calendar date (YYYY-MM-DD) in UTC.
// Used to join news articles with daily price bars.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Midnight returns the start of the calendar day containing t, in UTC.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
