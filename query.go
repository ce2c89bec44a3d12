package telusuri

import (
	"sort"
	"strings"
)

// QueryTerm is the descriptor attached to each parsed query token: its
// 1-based position in the query, whether it resolved to a common word, and
// its capitalization as ultimately resolved (which may differ from the raw
// token's capitalization after the similarity fallback substitutes a
// differently-cased lexicon term).
type QueryTerm struct {
	Position  uint32
	IsCommon  bool
	IsCapital bool
}

// WordPair couples a query term's descriptor with its resolved hitlist,
// which may be empty (common word, or no lexicon/similarity match).
type WordPair struct {
	Descriptor QueryTerm
	Hitlist    Hitlist
}

// UserQuery is the parsed form of a query string (§4.5): per-term
// descriptors and hitlists, the anchor root hitlist, and the expected
// relative positions used by the ranker's positional sweep.
type UserQuery struct {
	Raw         string
	WordPairs   map[string]WordPair
	RootHitlist Hitlist
	ExpectedPos []uint32

	// DocHitlists is populated by the GST-assisted ranker, not the parser
	// itself; it holds, per candidate document, the positions any query
	// term hit in that document (§4.7.2).
	DocHitlists map[uint32][]uint32
}

// ParseQuery implements §4.5: tokenize by whitespace, resolve each token
// against the lexicon (falling back to capitalization normalization and then
// Jaccard similarity), and derive the root hitlist and expected positions.
func ParseQuery(raw string, lex Lexicon, commonWords map[string]struct{}) *UserQuery {
	q := &UserQuery{
		Raw:       raw,
		WordPairs: make(map[string]WordPair),
	}

	tokens := strings.Fields(raw)
	var order []queryResolution

	for i, token := range tokens {
		position := uint32(i + 1)
		isCapital := isCapitalWord(token)
		term := token
		if !isCapital {
			term = strings.ToLower(token)
		}

		_, isCommon := commonWords[term]
		descriptor := QueryTerm{Position: position, IsCommon: isCommon, IsCapital: isCapital}

		var hits Hitlist
		switch {
		case isCommon:
			// store empty hitlist
		case lexHas(lex, term):
			hits = lex[term]
		case isCapital && lexHas(lex, strings.ToLower(term)):
			term = strings.ToLower(term)
			hits = lex[term]
			descriptor.IsCapital = false
		default:
			if candidate, ok := resolveSimilar(term, lex, commonWords); ok {
				term = candidate
				hits = lex[term]
				descriptor.IsCapital = isCapitalWord(candidate)
			}
		}

		pair := WordPair{Descriptor: descriptor, Hitlist: hits}
		q.WordPairs[term] = pair
		order = append(order, queryResolution{term: term, pair: pair})
	}

	q.RootHitlist = rootHitlist(order)
	q.ExpectedPos = expectedPositions(order)
	return q
}

// queryResolution is the per-token working state ParseQuery accumulates
// before deriving RootHitlist and ExpectedPos from it.
type queryResolution struct {
	term string
	pair WordPair
}

func lexHas(lex Lexicon, term string) bool {
	_, ok := lex[term]
	return ok
}

// rootHitlist returns the first (ascending position) non-common term's
// hitlist.
func rootHitlist(order []queryResolution) Hitlist {
	best := -1
	var out Hitlist
	for _, r := range order {
		if r.pair.Descriptor.IsCommon {
			continue
		}
		if best == -1 || r.pair.Descriptor.Position < uint32(best) {
			best = int(r.pair.Descriptor.Position)
			out = r.pair.Hitlist
		}
	}
	return out
}

// expectedPositions filters the non-common terms, sorts by descriptor
// position, and emits their absolute positions.
func expectedPositions(order []queryResolution) []uint32 {
	var positions []uint32
	for _, r := range order {
		if r.pair.Descriptor.IsCommon {
			continue
		}
		positions = append(positions, r.pair.Descriptor.Position)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })
	return positions
}

// NonCommonHitlists returns, in query order, the hitlists of every
// non-common term — the inputs the plain ranker merges into M (§4.7.1).
func (q *UserQuery) NonCommonHitlists() []Hitlist {
	type posList struct {
		pos  uint32
		hits Hitlist
	}
	var entries []posList
	for _, pair := range q.WordPairs {
		if pair.Descriptor.IsCommon {
			continue
		}
		entries = append(entries, posList{pos: pair.Descriptor.Position, hits: pair.Hitlist})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })

	out := make([]Hitlist, len(entries))
	for i, e := range entries {
		out[i] = e.hits
	}
	return out
}

// Terms returns the non-common query terms, in lexicon-key form, for the
// GST-assisted ranker's per-term FindTree lookups.
func (q *UserQuery) Terms() []string {
	var terms []string
	for term, pair := range q.WordPairs {
		if pair.Descriptor.IsCommon {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
