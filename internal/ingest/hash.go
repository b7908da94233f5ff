package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// hashLength is the stored digest prefix length in hex characters.
const hashLength = 32

// Hash computes the deduplication key for a message: SHA-256 over the
// trimmed text, author, and the timestamp floored to the minute
// (epoch milliseconds; 0 when absent), truncated to 32 hex characters.
// Two records with the same text and author whose timestamps fall in
// the same 60-second bucket hash identically; the message store's
// UNIQUE constraint on this value enforces exactly-once ingestion.
func Hash(text, author string, ts *time.Time) string {
	var bucket int64
	if ts != nil {
		bucket = ts.UnixMilli() / 60000 * 60000
	}

	canonical := strings.TrimSpace(text) + "::" + author + "::" + strconv.FormatInt(bucket, 10)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:hashLength]
}
