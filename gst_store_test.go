package telusuri

import (
	"path/filepath"
	"testing"
)

func TestGSTStore_SaveAndLoadRoundTrips(t *testing.T) {
	g := BuildGST(map[uint32]string{
		1: "quick brown fox",
		2: "quick silver",
	})

	path := filepath.Join(t.TempDir(), "gst.bin")
	store := NewGSTStore(path)
	if err := store.Save(g); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := g.FindTree("quick")
	got := loaded.FindTree("quick")
	if len(want) != len(got) {
		t.Fatalf("FindTree(quick) after round trip = %+v, want %+v", got, want)
	}
}

func TestGSTStore_LoadMissingFile(t *testing.T) {
	store := NewGSTStore(filepath.Join(t.TempDir(), "absent.bin"))
	if _, err := store.Load(); err == nil {
		t.Fatal("expected an error loading a missing store")
	}
}
