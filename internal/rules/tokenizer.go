package rules

import "strings"

// Text Tokenizer
//
// Lowercases, extracts maximal alphabetic runs of a minimum length, drops
// stop words and returns the deduplicated set. Deterministic and pure: the
// same text always yields the same set regardless of whitespace.

// stopWords are dropped from every token set. The list includes generic
// English filler plus procurement boilerplate that carries no signal
// (services, shall, contractor, ...).
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "been": true, "will": true, "with": true,
	"this": true, "that": true, "from": true, "they": true, "which": true,
	"their": true, "would": true, "there": true, "could": true, "other": true,
	"into": true, "more": true, "some": true, "such": true, "than": true,
	"them": true, "then": true, "these": true, "only": true, "over": true,
	"also": true, "after": true, "services": true, "service": true,
	"shall": true, "must": true, "may": true, "contractor": true,
	"provide": true, "including": true, "company": true, "organization": true,
	"team": true, "experience": true, "years": true,
}

// MinTokenLen is the default minimum token length for relevance scoring.
// Win-probability keyword matching uses MinKeywordLen.
const (
	MinTokenLen   = 3
	MinKeywordLen = 4
)

// Tokenize returns the set of alphabetic tokens of length >= minLen after
// stop-word removal.
func Tokenize(text string, minLen int) map[string]bool {
	tokens := make(map[string]bool)
	lower := strings.ToLower(text)

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := lower[start:end]
		start = -1
		if len(word) >= minLen && !stopWords[word] {
			tokens[word] = true
		}
	}

	for i, r := range lower {
		if r >= 'a' && r <= 'z' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lower))

	return tokens
}

// Jaccard computes |A ∩ B| / |A ∪ B| over two token sets. Returns 0 when
// both sets are empty.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if b[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
