package telusuri

import (
	"sort"
	"strings"
)

// PositionMatch is one phrase or proximity hit: the [start, end] Positions of
// the match and, for proximity matches, its accumulated score.
type PositionMatch struct {
	DocID   int
	Offsets []Position
	Score   float64
}

// NextPhrase finds the next occurrence of query (a whitespace-separated
// sequence of terms) at or after startPos, walking the PostingIndex's skip
// lists: find an end position by hopping term-by-term, walk backward to find
// where it would have to start, then confirm the positions are consecutive.
func (idx *PostingIndex) NextPhrase(query string, startPos Position) []Position {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return []Position{EOFDocument, EOFDocument}
	}

	endPos := idx.findPhraseEnd(terms, startPos)
	if endPos.IsEnd() {
		return []Position{EOFDocument, EOFDocument}
	}

	phraseStart := idx.findPhraseStart(terms, endPos)
	if isConsecutive(phraseStart, endPos, len(terms)) {
		return []Position{phraseStart, endPos}
	}

	return idx.NextPhrase(query, phraseStart)
}

func (idx *PostingIndex) findPhraseEnd(terms []string, startPos Position) Position {
	currentPos := startPos
	for _, term := range terms {
		currentPos, _ = idx.Next(term, currentPos)
		if currentPos.IsEnd() {
			return EOFDocument
		}
	}
	return currentPos
}

func (idx *PostingIndex) findPhraseStart(terms []string, endPos Position) Position {
	currentPos := endPos
	for i := len(terms) - 2; i >= 0; i-- {
		currentPos, _ = idx.Previous(terms[i], currentPos)
	}
	return currentPos
}

func isConsecutive(start, end Position, termCount int) bool {
	expected := float64(termCount - 1)
	return start.DocumentID == end.DocumentID && end.Offset-start.Offset == expected
}

// FindAllPhrases repeatedly calls NextPhrase until the index is exhausted.
func (idx *PostingIndex) FindAllPhrases(query string) [][]Position {
	var allMatches [][]Position
	currentPos := BOFDocument

	for !currentPos.IsEnd() {
		phrasePositions := idx.NextPhrase(query, currentPos)
		phraseStart := phrasePositions[0]
		if !phraseStart.IsEnd() {
			allMatches = append(allMatches, phrasePositions)
		}
		currentPos = phraseStart
	}
	return allMatches
}

// NextCover finds the next minimal range containing every given term, not
// necessarily consecutive or in order: find the furthest next occurrence of
// any term, then walk each term backward from there to the earliest position
// that still reaches it.
func (idx *PostingIndex) NextCover(terms []string, startPos Position) []Position {
	coverEnd := idx.findCoverEnd(terms, startPos)
	if coverEnd.IsEnd() {
		return []Position{EOFDocument, EOFDocument}
	}

	coverStart := idx.findCoverStart(terms, coverEnd)
	if coverStart.DocumentID == coverEnd.DocumentID {
		return []Position{coverStart, coverEnd}
	}

	return idx.NextCover(terms, coverStart)
}

func (idx *PostingIndex) findCoverEnd(terms []string, startPos Position) Position {
	maxPos := startPos
	for _, term := range terms {
		termPos, _ := idx.Next(term, startPos)
		if termPos.IsEnd() {
			return EOFDocument
		}
		if termPos.IsAfter(maxPos) {
			maxPos = termPos
		}
	}
	return maxPos
}

func (idx *PostingIndex) findCoverStart(terms []string, endPos Position) Position {
	minPos := BOFDocument
	searchBound := Position{DocumentID: endPos.DocumentID, Offset: endPos.Offset + 1}

	for _, term := range terms {
		termPos, _ := idx.Previous(term, searchBound)
		if minPos.IsBeginning() || termPos.IsBefore(minPos) {
			minPos = termPos
		}
	}
	return minPos
}

// RankProximity scores documents by how tightly the query's terms cluster:
// each cover in a document contributes 1/(distance+1), covers in the same
// document accumulate, and results are sorted by total score descending.
func (idx *PostingIndex) RankProximity(query string, maxResults int) []PositionMatch {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil
	}

	matches := idx.collectProximityMatches(terms)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if maxResults < len(matches) {
		matches = matches[:maxResults]
	}
	return matches
}

func (idx *PostingIndex) collectProximityMatches(terms []string) []PositionMatch {
	var matches []PositionMatch

	coverPositions := idx.NextCover(terms, BOFDocument)
	coverStart, coverEnd := coverPositions[0], coverPositions[1]

	currentCandidate := []Position{coverStart, coverEnd}
	currentScore := 0.0

	for !coverStart.IsEnd() {
		if currentCandidate[0].DocumentID < coverStart.DocumentID {
			matches = append(matches, PositionMatch{
				DocID:   currentCandidate[0].GetDocumentID(),
				Offsets: currentCandidate,
				Score:   currentScore,
			})
			currentCandidate = []Position{coverStart, coverEnd}
			currentScore = 0
		}

		proximity := coverEnd.Offset - coverStart.Offset + 1
		currentScore += 1 / proximity

		coverPositions = idx.NextCover(terms, coverStart)
		coverStart, coverEnd = coverPositions[0], coverPositions[1]
	}

	if !currentCandidate[0].IsEnd() {
		matches = append(matches, PositionMatch{
			DocID:   currentCandidate[0].GetDocumentID(),
			Offsets: currentCandidate,
			Score:   currentScore,
		})
	}

	return matches
}
