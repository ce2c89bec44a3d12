package telusuri

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// This file implements the length-prefixed binary framing shared by every
// persisted store (barrels, doc-pairs, GST, word counts). There is no
// cross-implementation compatibility requirement (§6); the format only needs
// to round-trip against itself.

var byteOrder = binary.LittleEndian

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	byteOrder.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return byteOrder.Uint32(buf[:]), nil
}

func writeBool(w io.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	_, err := w.Write([]byte{b})
	return err
}

func readBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] == 1, nil
}

func writeString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeHitlist(w io.Writer, hits Hitlist) error {
	if err := writeUint32(w, uint32(len(hits))); err != nil {
		return err
	}
	for _, h := range hits {
		if err := writeUint32(w, h); err != nil {
			return err
		}
	}
	return nil
}

func readHitlist(r io.Reader) (Hitlist, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	hits := make(Hitlist, n)
	for i := range hits {
		h, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		hits[i] = h
	}
	return hits, nil
}

// tokenizerHeader records the tokenizer configuration a store was built
// with, so a load-time mismatch against the running configuration (e.g. a
// stemmed index queried without stemming enabled) surfaces as a corruption
// error instead of silently producing wrong matches.
type tokenizerHeader struct {
	Stem      bool
	Stopwords bool
}

func writeTokenizerHeader(w io.Writer, h tokenizerHeader) error {
	if err := writeBool(w, h.Stem); err != nil {
		return err
	}
	return writeBool(w, h.Stopwords)
}

func readTokenizerHeader(r io.Reader) (tokenizerHeader, error) {
	stem, err := readBool(r)
	if err != nil {
		return tokenizerHeader{}, err
	}
	stop, err := readBool(r)
	if err != nil {
		return tokenizerHeader{}, err
	}
	return tokenizerHeader{Stem: stem, Stopwords: stop}, nil
}

// bufferedWriter and bufferedReader give every store a consistent buffering
// strategy without each call site re-wrapping os.File by hand.
func bufferedWriter(w io.Writer) *bufio.Writer {
	return bufio.NewWriterSize(w, 64*1024)
}

func bufferedReader(r io.Reader) *bufio.Reader {
	return bufio.NewReaderSize(r, 64*1024)
}

func wrapCorrupt(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
}
