package telusuri

import (
	"github.com/RoaringBitmap/roaring"
)

// QueryBuilder is a fluent boolean-query API over a PostingIndex, used by the
// supplemental boolean search feature (§10.3). It is independent of
// ParseQuery/RankPlain/RankGST: those implement the mandated two-variant
// ranker; QueryBuilder answers a different question ("which documents match
// this AND/OR/NOT expression") using the same roaring bitmaps the GST ranker
// already depends on.
type QueryBuilder struct {
	index  *PostingIndex
	tok    *Tokenizer
	stack  []*roaring.Bitmap
	ops    []QueryOp
	negate bool
}

// QueryOp is a pending boolean operation between two stack entries.
type QueryOp int

const (
	OpNone QueryOp = iota
	OpAnd
	OpOr
)

// NewQueryBuilder returns a QueryBuilder over index. Terms and phrases are
// normalized through tok, so callers should pass the same TokenizerOptions
// the index itself was built with.
func NewQueryBuilder(index *PostingIndex, tok *Tokenizer) *QueryBuilder {
	return &QueryBuilder{index: index, tok: tok}
}

// Term pushes the bitmap of documents containing term (after tokenizer
// normalization), negated if a prior Not() is pending.
func (qb *QueryBuilder) Term(term string) *QueryBuilder {
	qb.tok.Reset()
	tokens := qb.tok.Tokenize(term)
	if len(tokens) == 0 {
		qb.pushBitmap(roaring.NewBitmap())
		return qb
	}

	bitmap := qb.getTermBitmap(tokens[0].Word)
	if qb.negate {
		bitmap = qb.negateBitmap(bitmap)
		qb.negate = false
	}
	qb.pushBitmap(bitmap)
	return qb
}

// Phrase pushes the bitmap of documents containing the exact phrase, using
// the PostingIndex's skip lists to confirm consecutive positions.
func (qb *QueryBuilder) Phrase(phrase string) *QueryBuilder {
	qb.tok.Reset()
	tokens := qb.tok.Tokenize(phrase)
	if len(tokens) == 0 {
		qb.pushBitmap(roaring.NewBitmap())
		return qb
	}

	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Word
	}
	normalized := words[0]
	for _, w := range words[1:] {
		normalized += " " + w
	}

	matches := qb.index.FindAllPhrases(normalized)
	bitmap := roaring.NewBitmap()
	for _, match := range matches {
		if !match[0].IsEnd() {
			bitmap.Add(uint32(match[0].GetDocumentID()))
		}
	}

	if qb.negate {
		bitmap = qb.negateBitmap(bitmap)
		qb.negate = false
	}
	qb.pushBitmap(bitmap)
	return qb
}

// And queues an intersection between the next pushed bitmap and the stack.
func (qb *QueryBuilder) And() *QueryBuilder {
	qb.ops = append(qb.ops, OpAnd)
	return qb
}

// Or queues a union between the next pushed bitmap and the stack.
func (qb *QueryBuilder) Or() *QueryBuilder {
	qb.ops = append(qb.ops, OpOr)
	return qb
}

// Not negates whichever of Term/Phrase/Group is called next.
func (qb *QueryBuilder) Not() *QueryBuilder {
	qb.negate = true
	return qb
}

// Group evaluates a nested QueryBuilder and pushes its result, for
// controlling operator precedence (e.g. "(cat OR dog) AND pet").
func (qb *QueryBuilder) Group(fn func(*QueryBuilder)) *QueryBuilder {
	sub := NewQueryBuilder(qb.index, qb.tok)
	fn(sub)
	result := sub.Execute()

	if qb.negate {
		result = qb.negateBitmap(result)
		qb.negate = false
	}
	qb.pushBitmap(result)
	return qb
}

// Execute folds the stack left-to-right through its queued AND/OR operations
// and returns the resulting document bitmap.
func (qb *QueryBuilder) Execute() *roaring.Bitmap {
	if len(qb.stack) == 0 {
		return roaring.NewBitmap()
	}

	result := qb.stack[0]
	for i := 1; i < len(qb.stack); i++ {
		if i-1 >= len(qb.ops) {
			break
		}
		switch qb.ops[i-1] {
		case OpAnd:
			result = roaring.And(result, qb.stack[i])
		case OpOr:
			result = roaring.Or(result, qb.stack[i])
		}
	}
	return result
}

func (qb *QueryBuilder) getTermBitmap(term string) *roaring.Bitmap {
	if bitmap, ok := qb.index.DocBitmaps[term]; ok {
		return bitmap.Clone()
	}
	return roaring.NewBitmap()
}

// negateBitmap returns every document indexed by qb.index except those in
// bitmap, using the union of all per-term bitmaps as the universe.
func (qb *QueryBuilder) negateBitmap(bitmap *roaring.Bitmap) *roaring.Bitmap {
	universe := roaring.NewBitmap()
	for _, b := range qb.index.DocBitmaps {
		universe.Or(b)
	}
	return roaring.AndNot(universe, bitmap)
}

func (qb *QueryBuilder) pushBitmap(bitmap *roaring.Bitmap) {
	qb.stack = append(qb.stack, bitmap)
}

// AllOf finds documents containing every given term.
func AllOf(index *PostingIndex, tok *Tokenizer, terms ...string) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.NewBitmap()
	}
	qb := NewQueryBuilder(index, tok).Term(terms[0])
	for _, t := range terms[1:] {
		qb.And().Term(t)
	}
	return qb.Execute()
}

// AnyOf finds documents containing any given term.
func AnyOf(index *PostingIndex, tok *Tokenizer, terms ...string) *roaring.Bitmap {
	if len(terms) == 0 {
		return roaring.NewBitmap()
	}
	qb := NewQueryBuilder(index, tok).Term(terms[0])
	for _, t := range terms[1:] {
		qb.Or().Term(t)
	}
	return qb.Execute()
}

// TermExcluding finds documents with include but without exclude.
func TermExcluding(index *PostingIndex, tok *Tokenizer, include, exclude string) *roaring.Bitmap {
	return NewQueryBuilder(index, tok).
		Term(include).
		And().Not().Term(exclude).
		Execute()
}
