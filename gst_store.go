package telusuri

import (
	"fmt"
	"os"
)

// GSTStore persists the arena-backed suffix tree as a flat sequence of
// nodes, each carrying its label, child handles, and doc set — a direct
// serialization of the GST's own representation, needing no separate
// encode/decode translation layer.
type GSTStore struct{ path string }

func NewGSTStore(path string) *GSTStore { return &GSTStore{path: path} }

func (s *GSTStore) Save(g *GST) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("telusuri: removing existing gst store: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("telusuri: creating gst store: %w", err)
	}
	defer f.Close()

	w := bufferedWriter(f)
	if err := writeUint32(w, uint32(len(g.nodes))); err != nil {
		return err
	}
	for _, n := range g.nodes {
		if err := writeString(w, n.label); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(n.children))); err != nil {
			return err
		}
		for _, c := range n.children {
			if err := writeUint32(w, uint32(c)); err != nil {
				return err
			}
		}
		if err := writeUint32(w, uint32(len(n.docs))); err != nil {
			return err
		}
		for d := range n.docs {
			if err := writeUint32(w, d); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func (s *GSTStore) Load() (*GST, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrPersistenceMissing, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("telusuri: opening gst store: %w", err)
	}
	defer f.Close()

	r := bufferedReader(f)
	nodeCount, err := readUint32(r)
	if err != nil {
		return nil, wrapCorrupt(err)
	}

	nodes := make([]gstNode, nodeCount)
	for i := range nodes {
		label, err := readString(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		childCount, err := readUint32(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		children := make([]int, childCount)
		for j := range children {
			c, err := readUint32(r)
			if err != nil {
				return nil, wrapCorrupt(err)
			}
			children[j] = int(c)
		}
		docCount, err := readUint32(r)
		if err != nil {
			return nil, wrapCorrupt(err)
		}
		var docs map[uint32]struct{}
		if docCount > 0 {
			docs = make(map[uint32]struct{}, docCount)
			for k := uint32(0); k < docCount; k++ {
				d, err := readUint32(r)
				if err != nil {
					return nil, wrapCorrupt(err)
				}
				docs[d] = struct{}{}
			}
		}
		nodes[i] = gstNode{label: label, children: children, docs: docs}
	}
	return &GST{nodes: nodes}, nil
}
