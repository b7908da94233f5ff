// Package ingest turns raw chat-export text into normalized message
// records. It detects the export format (JSON-lines, JSON array, CSV,
// or plain text), extracts text/author/timestamp fields, narrows the
// record set to the primary author, and computes the deduplication
// hash used by the message store's uniqueness constraint.
package ingest

import (
	"strings"
	"time"
)

// Record is a single parsed message. Author and Timestamp are optional;
// an empty Author means the source line carried no sender information.
type Record struct {
	Text      string
	Author    string
	Timestamp *time.Time
}

// formatHandler is one step of the format-detection chain. canHandle is
// a cheap structural sniff; parse does the full extraction. A handler
// "wins" only when it yields at least one record, otherwise the chain
// falls through to the next handler.
type formatHandler struct {
	name      string
	canHandle func(trimmed string) bool
	parse     func(trimmed string) []Record
}

var formatChain = []formatHandler{
	{
		name: "json-lines",
		canHandle: func(s string) bool {
			return strings.HasPrefix(s, "{") && strings.Contains(s, "\n")
		},
		parse: parseJSONLines,
	},
	{
		name:      "json-array",
		canHandle: func(s string) bool { return strings.HasPrefix(s, "[") },
		parse:     parseJSONArray,
	},
	{
		name: "csv",
		canHandle: func(s string) bool {
			firstLine, _, _ := strings.Cut(s, "\n")
			return strings.Contains(firstLine, ",")
		},
		parse: parseCSV,
	},
}

// Parse extracts message records from raw pasted or uploaded text.
// It is total: malformed lines are skipped, never reported as errors,
// and unrecognizable input falls through to the plain-text handler,
// which always succeeds (possibly with zero records).
func Parse(raw string) []Record {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	for _, h := range formatChain {
		if !h.canHandle(trimmed) {
			continue
		}
		if records := h.parse(trimmed); len(records) > 0 {
			return records
		}
	}
	return parsePlainText(trimmed)
}
