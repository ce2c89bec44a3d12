package telusuri

import (
	"sort"

	"github.com/RoaringBitmap/roaring"
)

const (
	// PartialMatchOccurFactor weights repeated partial matches within the
	// same document's best subscore (§4.7.1).
	PartialMatchOccurFactor = 15.0
	// DefaultExactMatchFactor and DefaultGlobalModifier are both 1.0 unless
	// a caller overrides them.
	DefaultExactMatchFactor = 1.0
	DefaultGlobalModifier   = 1.0
)

// RankedDoc is one scored result, sorted by Score descending by the ranker.
type RankedDoc struct {
	DocID uint32
	Score float64
}

// RankerParams carries the two tunables the finalize rule exposes.
type RankerParams struct {
	GlobalModifier   float64
	ExactMatchFactor float64
}

// DefaultRankerParams returns both factors at their spec default of 1.0.
func DefaultRankerParams() RankerParams {
	return RankerParams{GlobalModifier: DefaultGlobalModifier, ExactMatchFactor: DefaultExactMatchFactor}
}

// RankPlain implements §4.7.1: merge every non-common query term's hitlist,
// sweep grouped by document, and score by exact vs. partial positional match
// against q.ExpectedPos anchored at q.RootHitlist.
func RankPlain(q *UserQuery, blacklist map[uint32]struct{}, params RankerParams) []RankedDoc {
	merged := mergeAscending(q.NonCommonHitlists())
	if len(merged) == 0 || len(q.ExpectedPos) == 0 {
		return nil
	}
	rootSet := hitSet(q.RootHitlist)

	var results []RankedDoc
	start := 0
	for start < len(merged) {
		doc := docOf(merged[start])
		end := start
		for end < len(merged) && docOf(merged[end]) == doc {
			end++
		}
		if _, blocked := blacklist[doc]; !blocked {
			exactCount, subMatch := evaluateChunks(merged[start:end], rootSet, q.ExpectedPos)
			if score, ok := finalizeScore(exactCount, subMatch, params); ok {
				results = append(results, RankedDoc{DocID: doc, Score: score})
			}
		}
		start = end
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// RankGST implements §4.7.2: candidate documents are the union, across
// non-common query terms, of GST FindTree results, minus the blacklist
// (resolving the dead intersection-ratio structure per SPEC_FULL.md §9 item
// 4). Each candidate is scored against the positions its docPairs hitlist
// shares with any query term's hitlist.
func RankGST(q *UserQuery, g *GST, docPairs DocPairs, blacklist map[uint32]struct{}, params RankerParams) []RankedDoc {
	terms := q.Terms()
	candidates := roaring.New()
	for _, term := range terms {
		for _, m := range g.FindTree(term) {
			candidates.Add(m.DocID)
		}
	}
	blacklistBitmap := roaring.New()
	for doc := range blacklist {
		blacklistBitmap.Add(doc)
	}
	candidates.AndNot(blacklistBitmap)

	queryHits := hitSet(mergeAscending(q.NonCommonHitlists()))
	rootSet := hitSet(q.RootHitlist)

	q.DocHitlists = make(map[uint32][]uint32, int(candidates.GetCardinality()))

	var results []RankedDoc
	it := candidates.Iterator()
	for it.HasNext() {
		doc := it.Next()
		docHits := docPairs[doc]
		if len(docHits) == 0 {
			continue
		}

		var pos Hitlist
		for _, h := range docHits {
			if _, ok := queryHits[h]; ok {
				pos = append(pos, h)
			}
		}
		if len(pos) == 0 {
			continue
		}
		sort.Slice(pos, func(i, j int) bool { return pos[i] < pos[j] })

		positions := make([]uint32, len(pos))
		for i, h := range pos {
			positions[i] = posOf(h)
		}
		q.DocHitlists[doc] = positions

		exactCount, subMatch := evaluateChunks(pos, rootSet, q.ExpectedPos)
		if score, ok := finalizeScore(exactCount, subMatch, params); ok {
			results = append(results, RankedDoc{DocID: doc, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// evaluateChunks runs the §4.7.1 curIter sweep over a single document's hits
// (already restricted to the relevant term hits, ascending by position).
// Each hit belonging to rootSet triggers evaluation of the buffer
// accumulated so far, and the trailing buffer is evaluated once more after
// the last hit — both rankers need this final flush, since the common case
// of a root term occurring only once per document (e.g. the root is the
// first query term) leaves its whole matching chunk as the trailing buffer,
// never followed by another root hit within the same document.
func evaluateChunks(hits []Hit, rootSet map[Hit]struct{}, expectedPos []uint32) (exactCount int, subMatch map[float64]int) {
	subMatch = make(map[float64]int)
	var curIter []uint32

	flush := func() {
		if len(curIter) == 0 {
			return
		}
		if len(curIter) == len(expectedPos) {
			if matchesExpected(curIter, expectedPos) {
				exactCount++
			}
		} else if len(expectedPos) > 0 {
			subScore := float64(len(curIter)) / float64(len(expectedPos))
			subMatch[subScore]++
		}
		curIter = curIter[:0]
	}

	for _, h := range hits {
		if _, isRoot := rootSet[h]; isRoot {
			flush()
		}
		curIter = append(curIter, posOf(h))
	}
	flush()

	return exactCount, subMatch
}

// matchesExpected normalizes curIter by its first element against
// expectedPos's first element, then compares element-wise.
func matchesExpected(curIter []uint32, expectedPos []uint32) bool {
	if len(curIter) != len(expectedPos) {
		return false
	}
	offset := int64(curIter[0]) - int64(expectedPos[0])
	for i := range curIter {
		if int64(curIter[i])-offset != int64(expectedPos[i]) {
			return false
		}
	}
	return true
}

// finalizeScore applies the §4.7.1 finalize rule: exact matches win outright;
// otherwise the best (largest) partial subscore, boosted by how often it
// recurred, wins; with neither, the document gets no entry.
func finalizeScore(exactCount int, subMatch map[float64]int, params RankerParams) (float64, bool) {
	if exactCount > 0 {
		return float64(exactCount) * params.GlobalModifier * params.ExactMatchFactor, true
	}
	if len(subMatch) == 0 {
		return 0, false
	}
	best := 0.0
	for s := range subMatch {
		if s > best {
			best = s
		}
	}
	score := (best + best/PartialMatchOccurFactor*float64(subMatch[best])) * params.GlobalModifier
	return score, true
}

// mergeAscending concatenates hitlists and sorts the result ascending.
func mergeAscending(lists []Hitlist) Hitlist {
	var total int
	for _, l := range lists {
		total += len(l)
	}
	merged := make(Hitlist, 0, total)
	for _, l := range lists {
		merged = append(merged, l...)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged
}

func hitSet(hits Hitlist) map[Hit]struct{} {
	set := make(map[Hit]struct{}, len(hits))
	for _, h := range hits {
		set[h] = struct{}{}
	}
	return set
}
