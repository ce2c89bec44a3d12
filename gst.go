package telusuri

import (
	"regexp"
	"sort"
	"strings"
)

// gstTerminal marks the end of each title-word's suffix chain, matching the
// source's use of "$" as a sentinel character.
const gstTerminal = "$"

// gstTitleCharset strips every title down to [a-z0-9 ] before splitting into
// words, mirroring the source's title-normalization pass ahead of insertion.
var gstTitleCharset = regexp.MustCompile(`[^a-z0-9 ]`)

// gstNode is one node of the arena-backed suffix tree. Nodes are addressed
// by integer handle (their index into GST.nodes); there are no parent
// back-pointers, since insertion is purely top-down (§9, "cyclic / shared
// graphs").
type gstNode struct {
	label    string
	children []int // handles into GST.nodes
	docs     map[uint32]struct{}
}

// GST is a generalized suffix tree over document titles, used as an optional
// candidate filter ahead of the positional ranker (§4.4).
type GST struct {
	nodes []gstNode
}

// NewGST returns an empty tree with only the root node (handle 0).
func NewGST() *GST {
	return &GST{nodes: []gstNode{{}}}
}

const gstRoot = 0

// BuildGST constructs a tree from docId→title pairs. Each title is
// lowercased, stripped to [a-z0-9 ], split on whitespace, and every suffix of
// every resulting word (plus the terminal "$") is inserted.
func BuildGST(titles map[uint32]string) *GST {
	g := NewGST()
	// Deterministic insertion order keeps the tree's shape reproducible
	// across builds over the same corpus (§8 idempotence).
	docs := make([]uint32, 0, len(titles))
	for d := range titles {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })

	for _, docID := range docs {
		title := strings.ToLower(titles[docID])
		title = gstTitleCharset.ReplaceAllString(title, " ")
		for _, word := range strings.Fields(title) {
			term := word + gstTerminal
			for i := 0; i < len(term); i++ {
				g.insert(gstRoot, term[i:], docID)
			}
		}
	}
	return g
}

// insert applies the §4.4 insertion rule for suffix s with root at the
// parent node's handle.
func (g *GST) insert(parent int, s string, docID uint32) {
	p := &g.nodes[parent]
	for _, childHandle := range p.children {
		c := &g.nodes[childHandle]
		k := commonPrefix(c.label, s)
		if k == 0 {
			continue
		}
		rP := c.label[k:]
		rS := s[k:]

		switch {
		case rP == "" && rS == "":
			if c.docs == nil {
				c.docs = make(map[uint32]struct{})
			}
			c.docs[docID] = struct{}{}
			return
		case rP == "" && rS != "":
			g.insert(childHandle, rS, docID)
			return
		default: // rP != "": split c
			tailHandle := g.newNode(rP, c.children, c.docs)
			c = &g.nodes[childHandle] // newNode may have reallocated g.nodes
			c.label = c.label[:k]
			c.children = []int{tailHandle}
			c.docs = nil

			if rS == "" {
				g.nodes[childHandle].docs = map[uint32]struct{}{docID: {}}
				return
			}
			newHandle := g.newNode(rS, nil, map[uint32]struct{}{docID: {}})
			g.nodes[childHandle].children = append(g.nodes[childHandle].children, newHandle)
			return
		}
	}
	// No child shares any prefix: add a fresh leaf.
	handle := g.newNode(s, nil, map[uint32]struct{}{docID: {}})
	g.nodes[parent].children = append(g.nodes[parent].children, handle)
}

func (g *GST) newNode(label string, children []int, docs map[uint32]struct{}) int {
	g.nodes = append(g.nodes, gstNode{label: label, children: children, docs: docs})
	return len(g.nodes) - 1
}

func commonPrefix(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// GSTMatch is one (docId, occurrenceCount) result from FindTree.
type GSTMatch struct {
	DocID uint32
	Count int
}

// FindTree descends the tree greedily for term (lowercased, terminal "$"
// appended) and returns the leaf's document set, each with occurrence count
// 1. Absent term ⇒ empty result.
func (g *GST) FindTree(term string) []GSTMatch {
	query := strings.ToLower(term) + gstTerminal
	node := gstRoot
	pos := 0

	for pos < len(query) {
		matched := false
		for _, childHandle := range g.nodes[node].children {
			c := &g.nodes[childHandle]
			if len(c.label) == 0 || c.label[0] != query[pos] {
				continue
			}
			remaining := query[pos:]
			if len(remaining) < len(c.label) || remaining[:len(c.label)] != c.label {
				// Partial/no match along this edge: term is absent.
				return nil
			}
			pos += len(c.label)
			node = childHandle
			matched = true
			break
		}
		if !matched {
			return nil
		}
	}

	docs := g.nodes[node].docs
	out := make([]GSTMatch, 0, len(docs))
	for d := range docs {
		out = append(out, GSTMatch{DocID: d, Count: 1})
	}
	return out
}

// FindTreeMulti sums occurrence counts for term across every query term that
// lands on the same docId, then sorts ascending by count. This preserves the
// source's observed (likely buggy) ascending order rather than the more
// intuitive descending-by-relevance order — see SPEC_FULL.md §9 item 3.
func FindTreeMulti(g *GST, terms []string) []GSTMatch {
	counts := make(map[uint32]int)
	for _, term := range terms {
		for _, m := range g.FindTree(term) {
			counts[m.DocID] += m.Count
		}
	}
	out := make([]GSTMatch, 0, len(counts))
	for d, c := range counts {
		out = append(out, GSTMatch{DocID: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	return out
}
