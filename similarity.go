package telusuri

import (
	"sort"
	"unicode"
)

// jaccardSimilarity computes character-set Jaccard similarity between two
// words: |intersection| / |union| of their distinct-rune sets.
func jaccardSimilarity(a, b string) float64 {
	setA := runeSet(a)
	setB := runeSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// runeSet lowercases before collecting distinct runes, so capital-preserved
// lexicon keys (e.g. "NASA") still compare equal to a lowercase query token
// on character content alone (§4.6 S3).
func runeSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[unicode.ToLower(r)] = struct{}{}
	}
	return set
}

// similarityCandidate is one lexicon term scored against an out-of-lexicon
// query term.
type similarityCandidate struct {
	term  string
	score float64
}

// rankSimilarity scores every lexicon term against w and returns them sorted
// descending by Jaccard similarity. Ties are left in whatever order the
// lexicon iteration produced them, matching the unspecified tie-break of
// §4.6 — callers should not rely on a particular tie ordering.
func rankSimilarity(w string, lex Lexicon) []similarityCandidate {
	candidates := make([]similarityCandidate, 0, len(lex))
	for term := range lex {
		candidates = append(candidates, similarityCandidate{term: term, score: jaccardSimilarity(w, term)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	return candidates
}

// resolveSimilar picks the first candidate that is not a common word. It
// returns ok=false when no candidate qualifies (e.g. empty lexicon).
func resolveSimilar(w string, lex Lexicon, commonWords map[string]struct{}) (term string, ok bool) {
	for _, c := range rankSimilarity(w, lex) {
		if _, common := commonWords[c.term]; common {
			continue
		}
		return c.term, true
	}
	return "", false
}
