package telusuri

import (
	"fmt"
	"log/slog"
)

// ParagraphRecord is one paragraph read from the repository adapter, already
// tagged with its document id. The adapter guarantees that records for the
// same docId appear contiguously and in original intra-document order;
// docIds may appear in any order across documents.
type ParagraphRecord struct {
	DocID     uint32
	Paragraph string
}

// IndexResult is the output of BuildIndex: the Lexicon, per-document word
// counts, the optional doc-pairs map, and the derived common-word and
// blacklist sets (§3, §4.2).
type IndexResult struct {
	Lexicon      Lexicon
	WordCounts   DocWordCount
	DocPairs     DocPairs // nil unless useGST
	CommonWords  map[string]struct{}
	Blacklist    map[uint32]struct{}
}

// BuildIndex runs the tokenizer over an ordered stream of paragraphs grouped
// by document, building the lexicon, per-document word counts, and
// (optionally) the doc-pairs map. A document boundary is detected whenever
// DocID changes from the previous record, per the repository adapter's
// contiguity guarantee (§4.8).
func BuildIndex(records []ParagraphRecord, opts TokenizerOptions, useGST bool, logger *slog.Logger) (*IndexResult, error) {
	lex := make(Lexicon)
	wordCounts := make(DocWordCount)
	var docPairs DocPairs
	if useGST {
		docPairs = make(DocPairs)
	}

	tok := NewTokenizer(opts)

	var currentDoc uint32
	haveCurrent := false
	var docCount uint32

	for _, rec := range records {
		if !validDocID(rec.DocID) {
			return nil, fmt.Errorf("%w: docId %d", ErrDocIDOverflow, rec.DocID)
		}
		if !haveCurrent || rec.DocID != currentDoc {
			tok.Reset()
			currentDoc = rec.DocID
			haveCurrent = true
		}

		tokens := tok.Tokenize(rec.Paragraph)
		if len(tokens) == 0 {
			continue
		}

		for _, t := range tokens {
			h := packHit(rec.DocID, t.Position, t.IsCapital)
			lex.append(t.Word, h)
			if useGST {
				docPairs[rec.DocID] = append(docPairs[rec.DocID], h)
			}
			docCount++
			wordCounts[rec.DocID]++
		}
	}

	if logger != nil {
		logger.Info("index built",
			"terms", len(lex),
			"documents", len(wordCounts),
			"hits", docCount,
			"useGST", useGST,
		)
	}

	lex.sortDescending()

	result := &IndexResult{
		Lexicon:     lex,
		WordCounts:  wordCounts,
		DocPairs:    docPairs,
		CommonWords: CommonWords(lex),
		Blacklist:   DocumentBlacklist(wordCounts),
	}
	return result, nil
}
