// Package memory implements the retrieval layer that grounds clone
// replies: an in-memory linear-scan TF-IDF index over the stored
// message corpus, rebuilt per chat turn and queried for the snippets
// most relevant to the incoming message. It is deliberately not a
// search engine — a few thousand short documents is its working range.
package memory

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// excerptMaxLen caps returned snippets; longer texts are truncated with
// an ellipsis marker.
const excerptMaxLen = 200

// retrievalStopWords is the tokenizer's stopword set. It is a separate
// list from the fingerprint vocabulary filter: retrieval keeps texting
// filler ("lol", "ok") because it can carry query signal.
var retrievalStopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will",
		"would", "could", "should", "may", "might", "shall", "can",
		"not", "no", "nor", "so", "yet", "both", "either", "neither",
		"just", "i", "me", "my", "we", "our", "you", "your", "he",
		"she", "it", "they", "them", "their", "this", "that", "these",
		"those", "what", "which", "who", "how", "when", "where",
		"why", "if",
	} {
		retrievalStopWords[w] = struct{}{}
	}
}

var nonTokenRe = regexp.MustCompile(`[^a-z0-9\s']`)

// tokenize lowercases, strips everything outside [a-z0-9\s'], splits on
// whitespace, and drops single-character tokens and stopwords.
func tokenize(text string) []string {
	cleaned := nonTokenRe.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, t := range fields {
		if len(t) <= 1 {
			continue
		}
		if _, stop := retrievalStopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// Document is one corpus entry: its raw text, token list, and
// length-normalized term frequencies. Held only for the lifetime of a
// single index build.
type document struct {
	id     string
	text   string
	tokens []string
	tf     map[string]float64
}

// Index is a TF-IDF index over short documents. Adding a document after
// a build invalidates the build; Search rebuilds lazily. The zero value
// is ready to use. Not safe for concurrent mutation.
type Index struct {
	docs  []document
	idf   map[string]float64
	built bool
}

// Add inserts a document. Term frequency is count/length over the
// token list, so repeated terms weigh more, normalized by document
// length.
func (ix *Index) Add(id, text string) {
	tokens := tokenize(text)
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t] += 1 / float64(len(tokens))
	}
	ix.docs = append(ix.docs, document{id: id, text: text, tokens: tokens, tf: tf})
	ix.built = false
}

// Build computes inverse document frequencies: ln(N/df)+1 per term,
// where df counts documents containing the term at least once. Terms
// absent from the corpus score zero at query time.
func (ix *Index) Build() {
	n := len(ix.docs)
	if n == 0 {
		return
	}

	df := make(map[string]int)
	for _, doc := range ix.docs {
		seen := make(map[string]struct{}, len(doc.tokens))
		for _, t := range doc.tokens {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	ix.idf = make(map[string]float64, len(df))
	for term, count := range df {
		ix.idf[term] = math.Log(float64(n)/float64(count)) + 1
	}
	ix.built = true
}

// Search scores every document against the query (sum of tf·idf over
// query tokens), drops zero scores, and returns up to topK document
// texts by descending score. Ties keep insertion order. An empty corpus
// or a query of nothing but stopwords yields an empty result.
func (ix *Index) Search(query string, topK int) []string {
	if !ix.built {
		ix.Build()
	}
	if len(ix.docs) == 0 || topK <= 0 {
		return []string{}
	}

	qTokens := tokenize(query)

	type scored struct {
		score float64
		pos   int
	}
	var hits []scored
	for i, doc := range ix.docs {
		score := 0.0
		for _, term := range qTokens {
			score += doc.tf[term] * ix.idf[term]
		}
		if score > 0 {
			hits = append(hits, scored{score: score, pos: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topK {
		hits = hits[:topK]
	}

	results := make([]string, 0, len(hits))
	for _, h := range hits {
		results = append(results, ix.docs[h.pos].text)
	}
	return results
}

// CorpusEntry is one (id, text) pair fed to Search.
type CorpusEntry struct {
	ID   string
	Text string
}

// Search builds a throwaway index over the corpus and returns up to
// topK relevant texts for the query, each truncated to 200 characters.
// A fresh build per call trades latency for correctness: the corpus
// snapshot is always current.
func Search(corpus []CorpusEntry, query string, topK int) []string {
	var ix Index
	for _, entry := range corpus {
		ix.Add(entry.ID, entry.Text)
	}
	ix.Build()

	results := ix.Search(query, topK)
	for i, r := range results {
		if runes := []rune(r); len(runes) > excerptMaxLen {
			results[i] = string(runes[:excerptMaxLen]) + "…"
		}
	}
	return results
}
