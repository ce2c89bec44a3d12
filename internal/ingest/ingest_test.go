package ingest

import (
	"context"
	"path/filepath"
	"testing"
)

func TestExtractParagraphs_SplitsByBlockTag(t *testing.T) {
	raw := `<html><body><p>First paragraph.</p><div>Second   paragraph.</div></body></html>`
	paragraphs, err := ExtractParagraphs(raw)
	if err != nil {
		t.Fatalf("ExtractParagraphs error: %v", err)
	}
	want := []string{"First paragraph.", "Second paragraph."}
	if len(paragraphs) != len(want) {
		t.Fatalf("got %v, want %v", paragraphs, want)
	}
	for i := range want {
		if paragraphs[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, paragraphs[i], want[i])
		}
	}
}

func TestExtractParagraphs_NestedBlockDoesNotDuplicateText(t *testing.T) {
	raw := `<html><body><div>Outer text <p>inner text</p> more outer</div></body></html>`
	paragraphs, err := ExtractParagraphs(raw)
	if err != nil {
		t.Fatalf("ExtractParagraphs error: %v", err)
	}
	if len(paragraphs) != 2 {
		t.Fatalf("got %v, want 2 paragraphs", paragraphs)
	}
	if paragraphs[0] != "Outer text more outer" {
		t.Errorf("outer paragraph = %q", paragraphs[0])
	}
	if paragraphs[1] != "inner text" {
		t.Errorf("inner paragraph = %q", paragraphs[1])
	}
}

func TestExtractParagraphs_EmptyBlocksAreSkipped(t *testing.T) {
	raw := `<html><body><p></p><p>   </p><p>real</p></body></html>`
	paragraphs, err := ExtractParagraphs(raw)
	if err != nil {
		t.Fatalf("ExtractParagraphs error: %v", err)
	}
	if len(paragraphs) != 1 || paragraphs[0] != "real" {
		t.Errorf("got %v, want [\"real\"]", paragraphs)
	}
}

func TestExtractTitle_ReturnsTitleElement(t *testing.T) {
	raw := `<html><head><title> My Page </title></head><body></body></html>`
	title, err := ExtractTitle(raw)
	if err != nil {
		t.Fatalf("ExtractTitle error: %v", err)
	}
	if title != "My Page" {
		t.Errorf("title = %q, want \"My Page\"", title)
	}
}

func TestExtractTitle_MissingTitleReturnsEmpty(t *testing.T) {
	title, err := ExtractTitle(`<html><body>no title here</body></html>`)
	if err != nil {
		t.Fatalf("ExtractTitle error: %v", err)
	}
	if title != "" {
		t.Errorf("title = %q, want empty", title)
	}
}

func TestStore_WritePageRoundTrips(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corpus.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	page := Page{ID: 1, Title: "Doc One", URL: "https://example.com/1", Paragraphs: []string{"first", "second"}}
	if err := store.WritePage(ctx, page); err != nil {
		t.Fatalf("WritePage error: %v", err)
	}

	var title, url string
	row := store.db.QueryRowContext(ctx, `SELECT title, url FROM page_information WHERE id_page = ?`, 1)
	if err := row.Scan(&title, &url); err != nil {
		t.Fatalf("querying page_information: %v", err)
	}
	if title != page.Title || url != page.URL {
		t.Errorf("got (%q, %q), want (%q, %q)", title, url, page.Title, page.URL)
	}

	var count int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_paragraph WHERE page_id = ?`, 1).Scan(&count); err != nil {
		t.Fatalf("counting paragraphs: %v", err)
	}
	if count != 2 {
		t.Errorf("got %d paragraphs, want 2", count)
	}
}

func TestStore_WritePageReplacesParagraphs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "corpus.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer store.Close()

	first := Page{ID: 1, Title: "v1", Paragraphs: []string{"a", "b", "c"}}
	if err := store.WritePage(ctx, first); err != nil {
		t.Fatalf("WritePage error: %v", err)
	}
	second := Page{ID: 1, Title: "v2", Paragraphs: []string{"only"}}
	if err := store.WritePage(ctx, second); err != nil {
		t.Fatalf("WritePage error: %v", err)
	}

	var count int
	if err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_paragraph WHERE page_id = ?`, 1).Scan(&count); err != nil {
		t.Fatalf("counting paragraphs: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d paragraphs, want 1 after replace", count)
	}
}
