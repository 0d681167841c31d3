// Package timezone converts between Finland local wall-clock time and UTC
// using the EU daylight saving rule, without relying on tzdata.
package timezone

import (
	"fmt"
	"strings"
	"time"
)

const (
	// StandardOffsetHours is the Finland offset from UTC outside DST (EET)
	StandardOffsetHours = 2
	// SummerOffsetHours is the Finland offset from UTC during DST (EEST)
	SummerOffsetHours = 3
)

// localLayouts are the zone-less timestamp formats the reservation API emits.
// Fractional seconds are accepted after the seconds field by time.Parse.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// lastSundayAtOneUTC returns 01:00 UTC on the last Sunday of the month
func lastSundayAtOneUTC(year int, month time.Month) time.Time {
	// Day zero of the next month is the last day of this one
	last := time.Date(year, month+1, 0, 1, 0, 0, 0, time.UTC)
	return last.AddDate(0, 0, -int(last.Weekday()))
}

// IsDaylightSavingTime reports whether t falls within the EU summer time
// interval of its UTC year: from the last Sunday of March 01:00 UTC inclusive
// to the last Sunday of October 01:00 UTC exclusive.
func IsDaylightSavingTime(t time.Time) bool {
	t = t.UTC()
	start := lastSundayAtOneUTC(t.Year(), time.March)
	end := lastSundayAtOneUTC(t.Year(), time.October)
	return !t.Before(start) && t.Before(end)
}

// OffsetHours returns the Finland offset from UTC in effect at now
func OffsetHours(now time.Time) int {
	if IsDaylightSavingTime(now) {
		return SummerOffsetHours
	}
	return StandardOffsetHours
}

// LocalToUTCHours converts a Finland clock hour to the matching UTC hour,
// using the offset in effect at now
func LocalToUTCHours(hour int, now time.Time) int {
	h := (hour - OffsetHours(now)) % 24
	if h < 0 {
		h += 24
	}
	return h
}

// FinnishTimestampToUTC parses a Finland local timestamp without zone
// information and returns the corresponding UTC instant.
//
// The offset applied is the one in effect at now, not at the timestamp
// itself. Timestamps carrying an explicit zone are returned unchanged.
func FinnishTimestampToUTC(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range localLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Add(-time.Duration(OffsetHours(now)) * time.Hour), nil
		}
	}

	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// UTCToFinnishTimestamp formats t as a Finland local timestamp without zone,
// the format the reservation API expects for search bounds
func UTCToFinnishTimestamp(t time.Time, now time.Time) string {
	local := t.UTC().Add(time.Duration(OffsetHours(now)) * time.Hour)
	return local.Format("2006-01-02T15:04:05")
}

// FinnishDayBounds returns the first and last second of the current Finland
// calendar day at now, formatted as zone-less local timestamps
func FinnishDayBounds(now time.Time) (start, end string) {
	day := now.UTC().Add(time.Duration(OffsetHours(now)) * time.Hour).Format("2006-01-02")
	return day + "T00:00:00", day + "T23:59:59"
}
