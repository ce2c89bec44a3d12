package telusuri

import (
	"os"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Status != StatusSearch {
		t.Errorf("default Status = %q, want %q", cfg.Status, StatusSearch)
	}
	if cfg.UseGST {
		t.Error("default UseGST = true, want false")
	}
	if cfg.BarrelStore != BarrelStoreLocal {
		t.Errorf("default BarrelStore = %q, want %q", cfg.BarrelStore, BarrelStoreLocal)
	}
}

func TestLoadConfig_RejectsInvalidStatus(t *testing.T) {
	withEnv(t, map[string]string{"INDEXER_STATUS": "bogus"})
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for an invalid INDEXER_STATUS")
	}
}

func TestLoadConfig_RejectsRemoteBarrelStore(t *testing.T) {
	withEnv(t, map[string]string{"INDEXER_BARREL_STORE": "remote"})
	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected an error for a remote barrel store")
	}
}

func TestLoadConfig_RejectsBadBoolEnv(t *testing.T) {
	withEnv(t, map[string]string{"INDEXER_USE_GST": "maybe"})
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for a non-boolean INDEXER_USE_GST")
	}
}

func TestLoadConfig_RejectsBadLogLevel(t *testing.T) {
	withEnv(t, map[string]string{"INDEXER_LOG_LEVEL": "verbose"})
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected an error for an invalid INDEXER_LOG_LEVEL")
	}
}

func TestLoadConfig_ReadsDBSettings(t *testing.T) {
	withEnv(t, map[string]string{
		"DB_HOST":     "localhost",
		"DB_USERNAME": "user",
		"DB_NAME":     "telusuri",
	})
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.DB.Host != "localhost" || cfg.DB.Username != "user" || cfg.DB.Name != "telusuri" {
		t.Errorf("DB config = %+v", cfg.DB)
	}
}

func TestNewLogger_ProducesNonNilLogger(t *testing.T) {
	cfg, _ := LoadConfig()
	logger := NewLogger(cfg)
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestLoadStopwordOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwords.yaml")
	content := "terms:\n  - foobar\n  - bazqux\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	got, err := LoadStopwordOverrides(path)
	if err != nil {
		t.Fatalf("LoadStopwordOverrides error: %v", err)
	}
	if len(got.Terms) != 2 || got.Terms[0] != "foobar" {
		t.Errorf("got %+v", got)
	}
}

func TestLoadStopwordOverrides_MissingFile(t *testing.T) {
	if _, err := LoadStopwordOverrides(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing stopwords file")
	}
}
