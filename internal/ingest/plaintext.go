package ingest

import (
	"regexp"
	"strings"
)

// Line patterns for common messenger exports, tried in order:
// bracketed timestamp ("[12/15/23, 2:34 PM] Name: text", iMessage),
// ISO-ish timestamp ("2023-12-15 14:34 Name: text"),
// trailing bracketed timestamp ("Name [2023-12-15 14:34]: text"),
// and a bare "Name: text" with a short letters-and-spaces name.
var (
	bracketTimestampRe = regexp.MustCompile(`(?i)^\[(\d{1,2}/\d{1,2}/\d{2,4},?\s+\d{1,2}:\d{2}(?::\d{2})?\s*[AP]M)\]\s+([^:]+):\s+(.+)$`)
	isoTimestampRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(?::\d{2})?)\s+([^:]+):\s+(.+)$`)
	nameThenBracketRe  = regexp.MustCompile(`^([^\[]+)\s+\[([^\]]+)\]:\s+(.+)$`)
	namePrefixRe       = regexp.MustCompile(`^([A-Za-z][A-Za-z\s]{0,25}):\s+(.+)$`)
)

var timestampedPatterns = []*regexp.Regexp{
	bracketTimestampRe,
	isoTimestampRe,
	nameThenBracketRe,
}

// parsePlainText is the unconditional last resort of the format chain.
// Each non-blank line is matched against the known messenger patterns;
// for the timestamped patterns the two leading captures are tried as
// (timestamp, name) first and swapped to (name, timestamp) when the
// first capture does not parse as a date. Lines matching nothing are
// emitted verbatim as authorless messages when longer than 2 characters.
func parsePlainText(raw string) []Record {
	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rec, ok := matchTimestampedLine(line); ok {
			records = append(records, rec)
			continue
		}

		if m := namePrefixRe.FindStringSubmatch(line); m != nil {
			records = append(records, Record{
				Text:   strings.TrimSpace(m[2]),
				Author: strings.TrimSpace(m[1]),
			})
			continue
		}

		if len(line) > 2 {
			records = append(records, Record{Text: line})
		}
	}
	return records
}

func matchTimestampedLine(line string) (Record, bool) {
	for _, pattern := range timestampedPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		first, second, text := m[1], m[2], strings.TrimSpace(m[3])
		if ts := parseTimeString(first); ts != nil {
			return Record{Text: text, Author: strings.TrimSpace(second), Timestamp: ts}, true
		}
		// Name came first; the second capture may still be a timestamp.
		return Record{Text: text, Author: strings.TrimSpace(first), Timestamp: parseTimeString(second)}, true
	}
	return Record{}, false
}
