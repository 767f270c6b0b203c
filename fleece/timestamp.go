package fleece

import "time"

// Fleece timestamps are stored either as a raw integer count of
// milliseconds since the Unix epoch, or as an ISO-8601 string; this file
// converts between the two (spec.md §4.2's timestamp coercion rules).

var isoLayouts = []string{
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISO8601Millis(s string) (int64, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), true
		}
	}
	return 0, false
}

// FormatTimestamp renders millis (a count of milliseconds since the Unix
// epoch) as an ISO-8601 UTC string with millisecond precision, matching the
// format the original C++ library's FLTimestampToString emits.
func FormatTimestamp(millis int64) string {
	t := time.UnixMilli(millis).UTC()
	return t.Format("2006-01-02T15:04:05.000Z")
}
