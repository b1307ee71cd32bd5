package progress

import (
	"strings"
	"time"
)

// TimestampLayouts are the accepted flight record timestamp formats, tried
// in order. Zone-less layouts are interpreted in the caller's location.
var TimestampLayouts = []string{
	time.RFC3339,                    // 2025-06-18T10:00:00Z, 2025-06-18T10:00:00+02:00
	"2006-01-02T15:04:05Z0700",      // 2025-06-18T10:00:00+0200
	"2006-01-02T15:04:05.000Z07:00", // 2025-06-18T10:00:00.123Z
	"2006-01-02T15:04:05.000Z0700",  // 2025-06-18T10:00:00.123+0200
	"2006-01-02T15:04:05",           // 2025-06-18T10:00:00
	"2006-01-02 15:04:05",           // 2025-06-18 10:00:00
}

// ParseTimestamp parses s against TimestampLayouts. Zone-less values are
// read in loc (UTC when nil). The second result is false when s is empty
// or matches no layout.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BestTimestamp picks the most reliable of the candidate timestamps in
// priority order actual > estimated > scheduled. The first candidate that
// parses wins.
func BestTimestamp(loc *time.Location, actual, estimated, scheduled string) (time.Time, bool) {
	for _, candidate := range []string{actual, estimated, scheduled} {
		if t, ok := ParseTimestamp(candidate, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
