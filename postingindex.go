package telusuri

import (
	"sync"

	"github.com/RoaringBitmap/roaring"
)

// PostingIndex is a supplemental structure built from a completed Lexicon
// (§10.3): a hybrid of per-term roaring bitmaps, for fast document-level
// boolean queries, and per-term skip lists, for position-level phrase and
// proximity queries. Neither ranker in ranker.go touches this type; it exists
// purely to back querybuilder.go and phrase.go.
type PostingIndex struct {
	mu sync.Mutex

	// DocBitmaps gives O(1) document-set operations per term.
	DocBitmaps map[string]*roaring.Bitmap
	// PostingsList gives ordered position access per term, one SkipList of
	// Positions (derived from Hit via PositionFromHit) per term.
	PostingsList map[string]*SkipList
}

// NewPostingIndex returns an empty PostingIndex.
func NewPostingIndex() *PostingIndex {
	return &PostingIndex{
		DocBitmaps:   make(map[string]*roaring.Bitmap),
		PostingsList: make(map[string]*SkipList),
	}
}

// BuildPostingIndex derives a PostingIndex from a Lexicon, fanning each
// term's Hitlist out into a bitmap of the documents it occurs in and a skip
// list of its exact (document, position) occurrences.
func BuildPostingIndex(lex Lexicon) *PostingIndex {
	idx := NewPostingIndex()
	for term, hits := range lex {
		for _, h := range hits {
			idx.indexHit(term, h)
		}
	}
	return idx
}

func (idx *PostingIndex) indexHit(term string, h Hit) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	bitmap, ok := idx.DocBitmaps[term]
	if !ok {
		bitmap = roaring.NewBitmap()
		idx.DocBitmaps[term] = bitmap
	}
	bitmap.Add(docOf(h))

	skipList, ok := idx.PostingsList[term]
	if !ok {
		skipList = NewSkipList()
		idx.PostingsList[term] = skipList
	}
	skipList.Insert(PositionFromHit(h))
}

func (idx *PostingIndex) getPostingList(term string) (*SkipList, bool) {
	skipList, ok := idx.PostingsList[term]
	return skipList, ok
}

// First returns a term's earliest occurrence.
func (idx *PostingIndex) First(term string) (Position, error) {
	skipList, ok := idx.getPostingList(term)
	if !ok {
		return EOFDocument, ErrNoPostingList
	}
	if skipList.Head.Tower[0] == nil {
		return EOFDocument, ErrNoPostingList
	}
	return skipList.Head.Tower[0].Key, nil
}

// Last returns a term's latest occurrence.
func (idx *PostingIndex) Last(term string) (Position, error) {
	skipList, ok := idx.getPostingList(term)
	if !ok {
		return EOFDocument, ErrNoPostingList
	}
	return skipList.Last(), nil
}

// Next returns the smallest occurrence of term strictly after currentPos.
// A currentPos at BOF yields First; a currentPos at EOF stays at EOF.
func (idx *PostingIndex) Next(term string, currentPos Position) (Position, error) {
	if currentPos.IsBeginning() {
		return idx.First(term)
	}
	if currentPos.IsEnd() {
		return EOFDocument, nil
	}

	skipList, ok := idx.getPostingList(term)
	if !ok {
		return EOFDocument, ErrNoPostingList
	}
	nextPos, err := skipList.FindGreaterThan(currentPos)
	if err != nil {
		return EOFDocument, nil
	}
	return nextPos, nil
}

// Previous returns the largest occurrence of term strictly before currentPos.
// A currentPos at EOF yields Last; a currentPos at BOF stays at BOF.
func (idx *PostingIndex) Previous(term string, currentPos Position) (Position, error) {
	if currentPos.IsEnd() {
		return idx.Last(term)
	}
	if currentPos.IsBeginning() {
		return BOFDocument, nil
	}

	skipList, ok := idx.getPostingList(term)
	if !ok {
		return BOFDocument, ErrNoPostingList
	}
	prevPos, err := skipList.FindLessThan(currentPos)
	if err != nil {
		return BOFDocument, nil
	}
	return prevPos, nil
}
