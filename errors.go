package telusuri

import "errors"

// Sentinel errors for the error taxonomy of the build and query paths.
// Callers should use errors.Is against these rather than matching strings.
var (
	// ErrBadConfig signals a missing or malformed environment variable at startup.
	ErrBadConfig = errors.New("telusuri: bad configuration")

	// ErrRemoteBarrelUnsupported is returned when INDEXER_BARREL_STORE=remote is
	// requested. The socket-based remote barrel protocol was never finished upstream;
	// this implementation refuses rather than half-implement it.
	ErrRemoteBarrelUnsupported = errors.New("telusuri: remote barrel store is not implemented")

	// ErrCorpusUnavailable signals the corpus store connection or a query against it failed.
	ErrCorpusUnavailable = errors.New("telusuri: corpus store unavailable")

	// ErrPersistenceMissing signals that a required barrel/docpairs/gst/wordcount file
	// does not exist in query mode.
	ErrPersistenceMissing = errors.New("telusuri: persisted index is missing")

	// ErrPersistenceCorrupt signals that a persisted file failed to deserialize.
	ErrPersistenceCorrupt = errors.New("telusuri: persisted index is corrupt")

	// ErrDocIDOverflow signals a document id beyond the 19-bit Hit field (524287).
	ErrDocIDOverflow = errors.New("telusuri: document id exceeds the maximum representable id (524287)")

	// ErrNoPostingList is returned when a term has no postings in the lexicon.
	ErrNoPostingList = errors.New("telusuri: no posting list for term")

	// ErrNoNextElement and ErrNoPrevElement are returned by the position skip list
	// navigation primitives when iteration runs off either end.
	ErrNoNextElement = errors.New("telusuri: no next element")
	ErrNoPrevElement = errors.New("telusuri: no previous element")

	// ErrKeyNotFound and ErrNoElementFound are returned by the skip list's Find family.
	ErrKeyNotFound   = errors.New("telusuri: key not found")
	ErrNoElementFound = errors.New("telusuri: no element found")
)
