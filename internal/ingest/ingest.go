// Package ingest turns raw HTML into the paragraph and title rows the
// SQLite-backed repository adapter serves. It is a one-way producer: the
// core's read path (telusuri.Repository) never imports this package, and
// this package never reads back what it writes.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	_ "modernc.org/sqlite"
)

// blockTags are the elements whose text content is extracted as one
// paragraph apiece; text outside of any block tag (stray top-level text
// nodes) is dropped, matching an HTML document's usual structure.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "td": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "article": true, "section": true,
}

// Page is one document ready for ingestion: its corpus id, title, source
// URL, and the paragraph strings extracted from its HTML body.
type Page struct {
	ID         uint32
	Title      string
	URL        string
	Paragraphs []string
}

// ExtractParagraphs parses an HTML document and returns the text content of
// every block-level element as a trimmed, non-empty paragraph, in document
// order. Nested block tags each yield their own paragraph; a block tag's
// paragraph includes only the text directly reachable from it, not text
// already captured by a nested block tag's own paragraph.
func ExtractParagraphs(rawHTML string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("ingest: parsing html: %w", err)
	}

	var paragraphs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && blockTags[n.Data] {
			if text := extractOwnText(n); text != "" {
				paragraphs = append(paragraphs, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return paragraphs, nil
}

// extractOwnText collects text from n and its descendants, skipping the
// subtree under any nested block tag (that subtree gets its own paragraph
// from the walk in ExtractParagraphs).
func extractOwnText(n *html.Node) string {
	var buf strings.Builder
	var collect func(node *html.Node, isRoot bool)
	collect = func(node *html.Node, isRoot bool) {
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteByte(' ')
			return
		}
		if !isRoot && node.Type == html.ElementNode && blockTags[node.Data] {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c, false)
		}
	}
	collect(n, true)
	return strings.TrimSpace(strings.Join(strings.Fields(buf.String()), " "))
}

// ExtractTitle returns the contents of the document's <title> element, or
// the empty string if none is present.
func ExtractTitle(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("ingest: parsing html: %w", err)
	}

	var title string
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return title, nil
}

// Store is a write-only handle onto the same SQLite schema the reference
// repository adapter reads from (page_information/page_paragraph). It is
// independent of telusuri.Repository: ingestion and query serving never
// share a Go type, only a database file and schema.
type Store struct {
	db *sql.DB
}

// Open creates (or reuses) the SQLite database at path and ensures its
// schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening store: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS page_information (
	id_page INTEGER PRIMARY KEY,
	title   TEXT NOT NULL DEFAULT '',
	url     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS page_paragraph (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	page_id     INTEGER NOT NULL REFERENCES page_information(id_page),
	ordinal     INTEGER NOT NULL,
	paragraph   TEXT NOT NULL
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ingest: initializing schema: %w", err)
	}
	return &Store{db: db}, nil
}

// WritePage inserts (or replaces) one page's title, url, and paragraphs.
func (s *Store) WritePage(ctx context.Context, page Page) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ingest: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO page_information (id_page, title, url) VALUES (?, ?, ?)
		 ON CONFLICT(id_page) DO UPDATE SET title = excluded.title, url = excluded.url`,
		page.ID, page.Title, page.URL,
	); err != nil {
		return fmt.Errorf("ingest: writing page_information: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM page_paragraph WHERE page_id = ?`, page.ID); err != nil {
		return fmt.Errorf("ingest: clearing prior paragraphs: %w", err)
	}
	for i, p := range page.Paragraphs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO page_paragraph (page_id, ordinal, paragraph) VALUES (?, ?, ?)`,
			page.ID, i, p,
		); err != nil {
			return fmt.Errorf("ingest: writing page_paragraph: %w", err)
		}
	}

	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
