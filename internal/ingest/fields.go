package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority-ordered field synonyms shared by the JSON and CSV handlers.
// The first present key wins.
var (
	textFields      = []string{"text", "message", "content", "body", "msg"}
	authorFields    = []string{"author", "sender", "from", "name", "who"}
	timestampFields = []string{"timestamp", "ts", "time", "date", "created_at", "createdAt"}
)

// lookupField returns the value of the first synonym present in obj.
// JSON null counts as absent.
func lookupField(obj map[string]any, synonyms []string) (any, bool) {
	for _, key := range synonyms {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringify renders a JSON field value the way a chat export would
// display it. Non-scalar values fall back to their default formatting.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// timeLayouts are tried in order when coercing timestamp strings.
// Covers ISO 8601, common export formats, and the bracketed iMessage
// style with and without seconds.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/06, 3:04:05 PM",
	"1/2/06, 3:04 PM",
	"1/2/2006, 3:04:05 PM",
	"1/2/2006, 3:04 PM",
	"1/2/06 3:04:05 PM",
	"1/2/06 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
}

// parseTimeString coerces a timestamp string into a time.Time, trying
// each known layout. Returns nil when no layout matches.
func parseTimeString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	// Exports sometimes lowercase the meridiem ("2:34 pm").
	upper := strings.ToUpper(s)
	if upper != s {
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, upper); err == nil {
				return &t
			}
		}
	}
	return nil
}

// coerceTimestamp converts a JSON timestamp value (string or epoch
// number) into a time.Time. Numeric values at or above 1e12 are taken
// as epoch milliseconds, below that as epoch seconds.
func coerceTimestamp(v any) *time.Time {
	switch val := v.(type) {
	case string:
		return parseTimeString(val)
	case float64:
		var t time.Time
		if val >= 1e12 {
			t = time.UnixMilli(int64(val)).UTC()
		} else {
			t = time.Unix(int64(val), 0).UTC()
		}
		return &t
	default:
		return nil
	}
}
