package telusuri

import "sort"

// Hitlist is an ordered sequence of Hits for one term (or, in the GST-enabled
// doc-pairs map, one document). During build it is appended in document-major,
// position-ascending order, which makes it naturally globally ascending; the
// final persisted form is sorted descending (see Lexicon.sortDescending).
type Hitlist []Hit

// Lexicon maps a term to its hitlist. Terms are lowercased unless fully
// capitalized (capitalPattern), in which case the original case is the key.
type Lexicon map[string]Hitlist

// DocPairs maps a document id to the hits emitted for it, in the same order
// they were appended to the lexicon. Populated only when GST support is enabled.
type DocPairs map[uint32]Hitlist

// DocWordCount maps a document id to its total emitted hit count.
type DocWordCount map[uint32]uint32

const (
	commonWordRatio      = 0.001
	blacklistRatio       = 0.05
	lowerEliminationRatio = 0.05 // defined for symmetry; nothing reads it, so it never affects the blacklist — see DESIGN.md
)

// append adds a hit to term's hitlist, preserving insertion order.
func (l Lexicon) append(term string, h Hit) {
	l[term] = append(l[term], h)
}

// sortDescending sorts every hitlist in place, descending by raw hit value.
// Because docId occupies the high bits, this also sorts descending by
// (docId, position, isCapital) lexicographically — the canonical persisted form.
func (l Lexicon) sortDescending() {
	for term, hits := range l {
		sorted := make(Hitlist, len(hits))
		copy(sorted, hits)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
		l[term] = sorted
	}
}

// commonWordCount is the number of terms retained as common words: the top
// ⌈|lex|·0.001⌉ by hitlist length.
func commonWordCount(lexiconSize int) int {
	return ceilRatio(lexiconSize, commonWordRatio)
}

// blacklistCount is the number of documents retained in the blacklist: the
// top ⌈|docs|·0.05⌉ by word count.
func blacklistCount(docCount int) int {
	return ceilRatio(docCount, blacklistRatio)
}

func ceilRatio(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	v := float64(n) * ratio
	ceiled := int(v)
	if float64(ceiled) < v {
		ceiled++
	}
	if ceiled < 1 {
		ceiled = 1
	}
	return ceiled
}

// CommonWords returns the set of terms with the longest hitlists, sized per
// commonWordCount. Ties at the cutoff are broken by map iteration order,
// matching the unspecified tie-break already called out for the similarity
// fallback (§4.6).
func CommonWords(lex Lexicon) map[string]struct{} {
	type termLen struct {
		term string
		n    int
	}
	entries := make([]termLen, 0, len(lex))
	for term, hits := range lex {
		entries = append(entries, termLen{term, len(hits)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].n > entries[j].n })

	n := commonWordCount(len(lex))
	out := make(map[string]struct{}, n)
	for i := 0; i < n && i < len(entries); i++ {
		out[entries[i].term] = struct{}{}
	}
	return out
}

// DocumentBlacklist returns the docIds with the largest word counts, sized
// per blacklistCount. The symmetric lower-bound elimination exists as
// lowerEliminationRatio above for parity with the source but is never
// consulted here — see SPEC_FULL.md §9 item 2.
func DocumentBlacklist(counts DocWordCount) map[uint32]struct{} {
	type docCount struct {
		doc   uint32
		count uint32
	}
	entries := make([]docCount, 0, len(counts))
	for doc, count := range counts {
		entries = append(entries, docCount{doc, count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].count > entries[j].count })

	n := blacklistCount(len(counts))
	out := make(map[uint32]struct{}, n)
	for i := 0; i < n && i < len(entries); i++ {
		out[entries[i].doc] = struct{}{}
	}
	return out
}
