package ingest

import "strings"

// parseCSV parses comma-separated input whose first line is a header.
// The text column is the first header cell matching a text synonym; if
// no header matches, the handler yields nothing and the chain falls
// through. Author and timestamp columns are optional. Data rows are
// split on commas outside double-quoted fields; rows with empty text
// are dropped.
func parseCSV(raw string) []Record {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(stripQuoteChars(h)))
	}

	textIdx := findColumn(headers, textFields)
	if textIdx == -1 {
		return nil
	}
	authorIdx := findColumn(headers, authorFields)
	tsIdx := findColumn(headers, timestampFields)

	var records []Record
	for _, line := range lines[1:] {
		cols := splitCSVLine(line)

		text := strings.TrimSpace(trimEdgeQuotes(cell(cols, textIdx)))
		if text == "" {
			continue
		}

		rec := Record{Text: text}
		if authorIdx >= 0 {
			rec.Author = strings.TrimSpace(trimEdgeQuotes(cell(cols, authorIdx)))
		}
		if tsIdx >= 0 {
			rec.Timestamp = parseTimeString(trimEdgeQuotes(cell(cols, tsIdx)))
		}
		records = append(records, rec)
	}
	return records
}

// splitCSVLine splits a data row on commas, treating a double quote as
// a toggle of "inside quotes" state. Commas inside quotes are not
// separators; quote characters themselves are not emitted.
func splitCSVLine(line string) []string {
	var (
		cols    []string
		cur     strings.Builder
		inQuote bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			cols = append(cols, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	cols = append(cols, cur.String())
	return cols
}

func findColumn(headers, synonyms []string) int {
	for i, h := range headers {
		for _, s := range synonyms {
			if h == s {
				return i
			}
		}
	}
	return -1
}

func cell(cols []string, idx int) string {
	if idx < 0 || idx >= len(cols) {
		return ""
	}
	return cols[idx]
}

// stripQuoteChars removes every single and double quote character;
// used for header cells only.
func stripQuoteChars(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\'' {
			return -1
		}
		return r
	}, s)
}

// trimEdgeQuotes removes at most one leading and one trailing quote
// character from a data cell.
func trimEdgeQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
