package telusuri

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// PageMeta decorates a ranked docId with the metadata used for display.
type PageMeta struct {
	Title string
	URL   string
}

// Repository is the read-only collaborator boundary described in §4.8. It is
// the only place the core talks to the corpus store; nothing here is
// written back to it.
type Repository interface {
	// ReadParagraphs returns every paragraph, grouped contiguously by docId
	// and in original intra-document order, across documents in any order.
	ReadParagraphs(ctx context.Context) ([]ParagraphRecord, error)
	// ReadTitles returns every document's title, used by the GST build.
	ReadTitles(ctx context.Context) (map[uint32]string, error)
	// ReadPageMeta resolves titles and URLs for a set of docIds, used to
	// decorate ranked results.
	ReadPageMeta(ctx context.Context, docIDs []uint32) (map[uint32]PageMeta, error)
	Close() error
}

// sqliteRepository is the reference Repository implementation, backed by a
// pure-Go SQLite database standing in for the corpus's MySQL store (§6). It
// runs the same three query shapes the corpus store is specified with,
// against a schema mirroring page_information/page_paragraph.
type sqliteRepository struct {
	db       *sql.DB
	closeOne sync.Once
}

// OpenSQLiteRepository opens (or creates) the SQLite-backed corpus store at
// path, enabling WAL mode and foreign keys, and ensuring the schema exists.
func OpenSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening sqlite repository: %v", ErrCorpusUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}

	if err := initRepositorySchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{db: db}, nil
}

func initRepositorySchema(ctx context.Context, db *sql.DB) error {
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

CREATE INDEX IF NOT EXISTS idx_page_paragraph_page_ordinal
	ON page_paragraph(page_id, ordinal);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: initializing schema: %v", ErrCorpusUnavailable, err)
	}
	return nil
}

func (r *sqliteRepository) ReadParagraphs(ctx context.Context) ([]ParagraphRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT page_id, paragraph
		FROM page_paragraph
		ORDER BY page_id, ordinal
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	defer rows.Close()

	var records []ParagraphRecord
	for rows.Next() {
		var pageID int64
		var paragraph string
		if err := rows.Scan(&pageID, &paragraph); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
		}
		records = append(records, ParagraphRecord{DocID: uint32(pageID), Paragraph: paragraph})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	return records, nil
}

func (r *sqliteRepository) ReadTitles(ctx context.Context) (map[uint32]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_page, title FROM page_information`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
	}
	defer rows.Close()

	titles := make(map[uint32]string)
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorpusUnavailable, err)
		}
		titles[uint32(id)] = title
	}
	return titles, rows.Err()
}

func (r *sqliteRepository) ReadPageMeta(ctx context.Context, docIDs []uint32) (map[uint32]PageMeta, error) {
	if len(docIDs) == 0 {
		return map[uint32]PageMeta{}, nil
	}

	placeholders := make([]string, len(docIDs))
	args := make([]any, len(docIDs))
	for i, id := range docIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id_page, title, url FROM page_information WHERE id_page IN (%s)`,
		strings.Join(placeholders, ","),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		// Corpus-unavailable during result decoration is recoverable per §7:
		// callers fall back to empty titles rather than failing the query.
		return map[uint32]PageMeta{}, nil
	}
	defer rows.Close()

	meta := make(map[uint32]PageMeta, len(docIDs))
	for rows.Next() {
		var id int64
		var title, url string
		if err := rows.Scan(&id, &title, &url); err != nil {
			continue
		}
		meta[uint32(id)] = PageMeta{Title: title, URL: url}
	}
	return meta, nil
}

func (r *sqliteRepository) Close() error {
	var err error
	r.closeOne.Do(func() {
		err = r.db.Close()
	})
	return err
}
