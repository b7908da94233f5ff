package ingest

import "strings"

// dominanceThreshold is the minimum share of authored records the most
// frequent author must hold before filtering kicks in. Below it, no
// single author dominates and the record set is returned unfiltered.
const dominanceThreshold = 0.3

// FilterPrimaryAuthor restricts records to the dominant author's
// messages plus any authorless records. Author comparison is
// case-insensitive. When no record carries an author, or the most
// frequent author accounts for less than 30% of authored records, the
// input is returned unchanged.
//
// Tie-break: counts are accumulated in corpus order and a later author
// must strictly exceed the running maximum to displace it, so the first
// author to reach the maximal count wins. This keeps the result
// deterministic for equal counts.
func FilterPrimaryAuthor(records []Record) []Record {
	counts := make(map[string]int)
	var (
		authored  int
		dominant  string
		dominantN int
	)
	for _, r := range records {
		if r.Author == "" {
			continue
		}
		authored++
		key := strings.ToLower(r.Author)
		counts[key]++
		if counts[key] > dominantN {
			dominantN = counts[key]
			dominant = key
		}
	}

	if authored == 0 {
		return records
	}
	if float64(dominantN)/float64(authored) < dominanceThreshold {
		return records
	}

	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Author == "" || strings.EqualFold(r.Author, dominant) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
