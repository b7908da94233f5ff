package voice

// stopWords are excluded from top-vocabulary extraction: common English
// function words plus texting filler that says nothing about voice.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "is", "are", "was", "were", "be", "been",
		"have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "i", "me", "my", "we",
		"you", "your", "he", "she", "it", "they", "this", "that",
		"what", "how", "when", "where", "why", "if", "its", "us",
		"can", "just", "so", "no", "not", "yeah", "like", "get",
		"got", "ok", "okay", "lol", "im", "dont", "cant", "thats",
	} {
		stopWords[w] = struct{}{}
	}
}
