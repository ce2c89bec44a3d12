package telusuri

import (
	"fmt"
	"os"
	"sort"
)

const targetBarrelCount = 64

// Barrel is one persisted shard of the lexicon: a contiguous, ascending
// slice of (term, hitlist) pairs, keyed by the lexicographically smallest
// term it holds.
type Barrel struct {
	Key   string
	Pairs map[string]Hitlist
}

// ShardLexicon partitions lex into barrels in ascending term order.
// barrelSize = ⌊|lex| / targetBarrelCount⌋ pairs go into each full barrel;
// the residual buffer (size < barrelSize) is flushed too, under its own
// first term. The source never flushed this tail barrel — see SPEC_FULL.md
// §9 item 1; this implementation does, so no terms are ever dropped.
func ShardLexicon(lex Lexicon) []Barrel {
	terms := make([]string, 0, len(lex))
	for term := range lex {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	barrelSize := len(terms) / targetBarrelCount
	if barrelSize == 0 {
		barrelSize = len(terms) // fewer terms than barrels: everything in one barrel
	}

	var barrels []Barrel
	var buf map[string]Hitlist
	var bufKey string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		barrels = append(barrels, Barrel{Key: bufKey, Pairs: buf})
		buf = nil
	}

	for _, term := range terms {
		if buf == nil {
			buf = make(map[string]Hitlist)
			bufKey = term
		}
		buf[term] = lex[term]
		if barrelSize > 0 && len(buf) == barrelSize {
			flush()
		}
	}
	flush() // residual tail; the source's known-missing flush, fixed here.

	return barrels
}

// WordPairStore persists the sharded lexicon as a sequence of barrels.
type WordPairStore struct {
	path   string
	header tokenizerHeader
}

func NewWordPairStore(path string, header tokenizerHeader) *WordPairStore {
	return &WordPairStore{path: path, header: header}
}

// NewWordPairStoreForOptions is the exported constructor for callers outside
// the package (cmd/telusuri) that only have a TokenizerOptions, not the
// package-private tokenizerHeader it is persisted as.
func NewWordPairStoreForOptions(path string, opts TokenizerOptions) *WordPairStore {
	return NewWordPairStore(path, tokenizerHeader{Stem: opts.Stem, Stopwords: opts.Stopwords})
}

// Save writes every barrel to a single file, deleting any prior file first
// (rebuild semantics, §4.3).
func (s *WordPairStore) Save(barrels []Barrel) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("telusuri: removing existing word-pair store: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("telusuri: creating word-pair store: %w", err)
	}
	defer f.Close()

	w := bufferedWriter(f)
	if err := writeTokenizerHeader(w, s.header); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(barrels))); err != nil {
		return err
	}
	for _, b := range barrels {
		if err := writeString(w, b.Key); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(b.Pairs))); err != nil {
			return err
		}
		for term, hits := range b.Pairs {
			if err := writeString(w, term); err != nil {
				return err
			}
			if err := writeHitlist(w, hits); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// Load opens the store read-only, iterates every barrel, and unions their
// pairs into a single in-memory lexicon (§4.3 query-time load semantics).
func (s *WordPairStore) Load() (Lexicon, tokenizerHeader, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, tokenizerHeader{}, fmt.Errorf("%w: %s", ErrPersistenceMissing, s.path)
	}
	if err != nil {
		return nil, tokenizerHeader{}, fmt.Errorf("telusuri: opening word-pair store: %w", err)
	}
	defer f.Close()

	r := bufferedReader(f)
	header, err := readTokenizerHeader(r)
	if err != nil {
		return nil, tokenizerHeader{}, wrapCorrupt(err)
	}
	if header != s.header {
		return nil, tokenizerHeader{}, fmt.Errorf("%w: store built with %+v, running with %+v", ErrPersistenceCorrupt, header, s.header)
	}

	barrelCount, err := readUint32(r)
	if err != nil {
		return nil, tokenizerHeader{}, wrapCorrupt(err)
	}

	lex := make(Lexicon)
	for i := uint32(0); i < barrelCount; i++ {
		if _, err := readString(r); err != nil { // barrel key, unused once merged
			return nil, tokenizerHeader{}, wrapCorrupt(err)
		}
		pairCount, err := readUint32(r)
		if err != nil {
			return nil, tokenizerHeader{}, wrapCorrupt(err)
		}
		for j := uint32(0); j < pairCount; j++ {
			term, err := readString(r)
			if err != nil {
				return nil, tokenizerHeader{}, wrapCorrupt(err)
			}
			hits, err := readHitlist(r)
			if err != nil {
				return nil, tokenizerHeader{}, wrapCorrupt(err)
			}
			lex[term] = hits
		}
	}
	return lex, header, nil
}

// DocPairStore persists the doc-pairs blob (docId → hitlist), used only when
// GST support is enabled.
type DocPairStore struct{ path string }

func NewDocPairStore(path string) *DocPairStore { return &DocPairStore{path: path} }

func (s *DocPairStore) Save(pairs DocPairs) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("telusuri: removing existing doc-pair store: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("telusuri: creating doc-pair store: %w", err)
	}
	defer f.Close()

	w := bufferedWriter(f)
	if err := writeUint32(w, uint32(len(pairs))); err != nil {
		return err
	}
	for doc, hits := range pairs {
		if err := writeUint32(w, doc); err != nil {
			return err
		}
		if err := writeHitlist(w, hits); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (s *DocPairStore) Load() (DocPairs, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPersistenceMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("telusuri: opening doc-pair store: %w", err)
	}
	defer f.Close()

	r := bufferedReader(f)
	n, err := readUint32(r)
	if err != nil {
		return nil, wrapCorrupt(err)
	}
	pairs := make(DocPairs, n)
	for i := uint32(0); i < n; i++ {
		doc, err := readUint32(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		hits, err := readHitlist(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		pairs[doc] = hits
	}
	return pairs, nil
}

// WordCountStore persists the per-document word count blob.
type WordCountStore struct{ path string }

func NewWordCountStore(path string) *WordCountStore { return &WordCountStore{path: path} }

func (s *WordCountStore) Save(counts DocWordCount) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("telusuri: removing existing word-count store: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("telusuri: creating word-count store: %w", err)
	}
	defer f.Close()

	w := bufferedWriter(f)
	if err := writeUint32(w, uint32(len(counts))); err != nil {
		return err
	}
	for doc, count := range counts {
		if err := writeUint32(w, doc); err != nil {
			return err
		}
		if err := writeUint32(w, count); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (s *WordCountStore) Load() (DocWordCount, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPersistenceMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("telusuri: opening word-count store: %w", err)
	}
	defer f.Close()

	r := bufferedReader(f)
	n, err := readUint32(r)
	if err != nil {
		return nil, wrapCorrupt(err)
	}
	counts := make(DocWordCount, n)
	for i := uint32(0); i < n; i++ {
		doc, err := readUint32(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		count, err := readUint32(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		counts[doc] = count
	}
	return counts, nil
}

// RemoveStaleStores deletes all four persisted files (word pairs, word
// counts, doc pairs, GST), implementing the rebuild-deletes-existing-files
// semantics of §4.3. useGST does not change the set: a build without GST
// still removes the doc-pairs and GST files of an earlier build. Missing
// files are not an error.
func RemoveStaleStores(paths PersistencePaths, useGST bool) error {
	targets := []string{paths.WordPairs, paths.DocWordCount, paths.DocPairs, paths.GST}
	for _, p := range targets {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("telusuri: clearing stale store %s: %w", p, err)
		}
	}
	return nil
}
