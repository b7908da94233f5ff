package ingest

import (
	"encoding/json"
	"strings"
)

// parseJSONLines parses input where each non-blank line is an
// independent JSON object. Lines that fail to parse, carry no
// recognized text field, or trim to empty text are skipped.
func parseJSONLines(raw string) []Record {
	var records []Record
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			continue
		}

		textVal, ok := lookupField(obj, textFields)
		if !ok {
			continue
		}
		text := strings.TrimSpace(stringify(textVal))
		if text == "" {
			continue
		}

		rec := Record{Text: text}
		if authorVal, ok := lookupField(obj, authorFields); ok {
			rec.Author = stringify(authorVal)
		}
		if tsVal, ok := lookupField(obj, timestampFields); ok {
			rec.Timestamp = coerceTimestamp(tsVal)
		}
		records = append(records, rec)
	}
	return records
}

// parseJSONArray parses a top-level JSON array by re-serializing each
// element onto its own line and reusing the JSON-lines handler.
func parseJSONArray(raw string) []Record {
	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err != nil {
		return nil
	}

	// Re-marshal compacts pretty-printed elements onto single lines.
	lines := make([]string, 0, len(arr))
	for _, elem := range arr {
		compact, err := json.Marshal(elem)
		if err != nil {
			continue
		}
		lines = append(lines, string(compact))
	}
	return parseJSONLines(strings.Join(lines, "\n"))
}
