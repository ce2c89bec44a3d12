package telusuri

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BarrelStoreKind selects where barrels are persisted.
type BarrelStoreKind string

const (
	BarrelStoreLocal  BarrelStoreKind = "local"
	BarrelStoreRemote BarrelStoreKind = "remote"
)

// IndexerStatus selects build vs. query mode.
type IndexerStatus string

const (
	StatusReindex IndexerStatus = "reindex"
	StatusSearch  IndexerStatus = "search"
)

// PersistencePaths names the four on-disk stores. The names are part of the
// wire format (see the corpus's original pickle-file naming) even though the
// encoding itself is this implementation's own.
type PersistencePaths struct {
	WordPairs     string
	DocPairs      string
	GST           string
	DocWordCount  string
}

// DefaultPersistencePaths mirrors the original file names, rooted at the
// working directory, so a deployment that simply copies the old layout keeps working.
func DefaultPersistencePaths() PersistencePaths {
	return PersistencePaths{
		WordPairs:    "telusuri_wordpairs.pkl",
		DocPairs:     "telusuri_docpairs.pkl",
		GST:          "telusuri_gst.pkl",
		DocWordCount: "telusuri_docwordcount.pkl",
	}
}

// DBConfig holds the corpus store connection parameters.
type DBConfig struct {
	Host     string
	Username string
	Password string
	Name     string
	Port     string
}

// Config is the single, explicitly-passed configuration value for the builder
// and query engine. There are no package-level configuration globals; every
// component that needs a setting receives this struct (or a field of it).
type Config struct {
	Status      IndexerStatus
	UseGST      bool
	BarrelStore BarrelStoreKind
	StemWords   bool
	LogLevel    slog.Level
	LogFormat   string
	StopwordsPath string

	DB    DBConfig
	Paths PersistencePaths
}

// LoadConfig reads the environment variables documented for the build/query
// entry point and validates them. It never touches package-level state.
func LoadConfig() (Config, error) {
	cfg := Config{
		Paths: DefaultPersistencePaths(),
	}

	status := IndexerStatus(getenvDefault("INDEXER_STATUS", string(StatusSearch)))
	if status != StatusReindex && status != StatusSearch {
		return Config{}, fmt.Errorf("%w: INDEXER_STATUS must be %q or %q, got %q", ErrBadConfig, StatusReindex, StatusSearch, status)
	}
	cfg.Status = status

	useGST, err := parseBoolEnv("INDEXER_USE_GST", false)
	if err != nil {
		return Config{}, err
	}
	cfg.UseGST = useGST

	barrelStore := BarrelStoreKind(getenvDefault("INDEXER_BARREL_STORE", string(BarrelStoreLocal)))
	switch barrelStore {
	case BarrelStoreLocal:
		cfg.BarrelStore = barrelStore
	case BarrelStoreRemote:
		return Config{}, fmt.Errorf("%w: %w", ErrBadConfig, ErrRemoteBarrelUnsupported)
	default:
		return Config{}, fmt.Errorf("%w: INDEXER_BARREL_STORE must be %q or %q, got %q", ErrBadConfig, BarrelStoreLocal, BarrelStoreRemote, barrelStore)
	}

	stemWords, err := parseBoolEnv("INDEXER_STEM_WORDS", false)
	if err != nil {
		return Config{}, err
	}
	cfg.StemWords = stemWords

	level, err := parseLogLevel(getenvDefault("INDEXER_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	cfg.LogFormat = getenvDefault("INDEXER_LOG_FORMAT", "text")
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("%w: INDEXER_LOG_FORMAT must be %q or %q, got %q", ErrBadConfig, "text", "json", cfg.LogFormat)
	}

	cfg.StopwordsPath = os.Getenv("INDEXER_STOPWORDS_PATH")

	cfg.DB = DBConfig{
		Host:     os.Getenv("DB_HOST"),
		Username: os.Getenv("DB_USERNAME"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Port:     os.Getenv("DB_PORT"),
	}

	return cfg, nil
}

// NewLogger builds the structured logger driven by cfg. It is constructed
// once at startup and threaded explicitly into every component; there is no
// package-level logger.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// StopwordOverrides is the shape of an optional YAML stopword file, loaded
// when INDEXER_STOPWORDS_PATH is set. It supplements (does not replace) the
// built-in English stopword list.
type StopwordOverrides struct {
	Terms []string `yaml:"terms"`
}

// LoadStopwordOverrides reads and parses a YAML stopword file.
func LoadStopwordOverrides(path string) (StopwordOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StopwordOverrides{}, fmt.Errorf("telusuri: reading stopwords file: %w", err)
	}
	var out StopwordOverrides
	if err := yaml.Unmarshal(data, &out); err != nil {
		return StopwordOverrides{}, fmt.Errorf("telusuri: parsing stopwords file: %w", err)
	}
	return out, nil
}

func getenvDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parseBoolEnv(key string, fallback bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", ErrBadConfig, key, v)
	}
	return b, nil
}

func parseLogLevel(v string) (slog.Level, error) {
	switch v {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: INDEXER_LOG_LEVEL must be one of debug,info,warn,error, got %q", ErrBadConfig, v)
	}
}
