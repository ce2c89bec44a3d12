// Command telusuri is the interactive build/query entry point described in
// SPEC_FULL.md §6: INDEXER_STATUS selects between rebuilding the persisted
// index from the corpus store and prompting for a single query line against
// an already-built one.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"

	"github.com/telusuri/telusuri"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := telusuri.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "telusuri:", err)
		return 1
	}
	logger := telusuri.NewLogger(cfg)

	tokOpts := telusuri.TokenizerOptions{Stem: cfg.StemWords}
	if cfg.StopwordsPath != "" {
		overrides, err := telusuri.LoadStopwordOverrides(cfg.StopwordsPath)
		if err != nil {
			logger.Error("loading stopwords override", "error", err)
			return 1
		}
		tokOpts.Stopwords = true
		tokOpts.ExtraStopwords = overrides.Terms
	}

	ctx := context.Background()
	dbPath := cfg.DB.Name
	if dbPath == "" {
		dbPath = "telusuri_corpus.db"
	}
	repo, err := telusuri.OpenSQLiteRepository(ctx, dbPath)
	if err != nil {
		logger.Error("opening corpus store", "error", err)
		return 1
	}
	defer repo.Close()

	switch cfg.Status {
	case telusuri.StatusReindex:
		return reindex(ctx, cfg, tokOpts, repo, logger)
	case telusuri.StatusSearch:
		return search(ctx, cfg, tokOpts, repo, logger)
	default:
		logger.Error("unknown status", "status", cfg.Status)
		return 1
	}
}

func reindex(ctx context.Context, cfg telusuri.Config, tokOpts telusuri.TokenizerOptions, repo telusuri.Repository, logger *slog.Logger) int {
	records, err := repo.ReadParagraphs(ctx)
	if err != nil {
		logger.Error("reading paragraphs", "error", err)
		return 1
	}

	result, err := telusuri.BuildIndex(records, tokOpts, cfg.UseGST, logger)
	if err != nil {
		logger.Error("building index", "error", err)
		return 1
	}

	if err := telusuri.RemoveStaleStores(cfg.Paths, cfg.UseGST); err != nil {
		logger.Error("clearing stale stores", "error", err)
		return 1
	}

	barrels := telusuri.ShardLexicon(result.Lexicon)
	wordPairs := telusuri.NewWordPairStoreForOptions(cfg.Paths.WordPairs, tokOpts)
	if err := wordPairs.Save(barrels); err != nil {
		logger.Error("saving word pairs", "error", err)
		return 1
	}

	wordCounts := telusuri.NewWordCountStore(cfg.Paths.DocWordCount)
	if err := wordCounts.Save(result.WordCounts); err != nil {
		logger.Error("saving word counts", "error", err)
		return 1
	}

	if cfg.UseGST {
		docPairs := telusuri.NewDocPairStore(cfg.Paths.DocPairs)
		if err := docPairs.Save(result.DocPairs); err != nil {
			logger.Error("saving doc pairs", "error", err)
			return 1
		}

		titles, err := repo.ReadTitles(ctx)
		if err != nil {
			logger.Error("reading titles for GST", "error", err)
			return 1
		}
		gst := telusuri.BuildGST(titles)
		gstStore := telusuri.NewGSTStore(cfg.Paths.GST)
		if err := gstStore.Save(gst); err != nil {
			logger.Error("saving gst", "error", err)
			return 1
		}
	}

	logger.Info("reindex complete", "terms", len(result.Lexicon), "documents", len(result.WordCounts))
	return 0
}

func search(ctx context.Context, cfg telusuri.Config, tokOpts telusuri.TokenizerOptions, repo telusuri.Repository, logger *slog.Logger) int {
	wordPairs := telusuri.NewWordPairStoreForOptions(cfg.Paths.WordPairs, tokOpts)
	lex, _, err := wordPairs.Load()
	if err != nil {
		logger.Error("loading word pairs", "error", err)
		return 1
	}

	commonWords := telusuri.CommonWords(lex)

	wordCounts, err := telusuri.NewWordCountStore(cfg.Paths.DocWordCount).Load()
	if err != nil {
		logger.Error("loading word counts", "error", err)
		return 1
	}
	blacklist := telusuri.DocumentBlacklist(wordCounts)

	var gst *telusuri.GST
	var docPairs telusuri.DocPairs
	if cfg.UseGST {
		gst, err = telusuri.NewGSTStore(cfg.Paths.GST).Load()
		if err != nil {
			logger.Error("loading gst", "error", err)
			return 1
		}
		docPairs, err = telusuri.NewDocPairStore(cfg.Paths.DocPairs).Load()
		if err != nil {
			logger.Error("loading doc pairs", "error", err)
			return 1
		}
	}

	fmt.Print("query> ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return 0
	}
	line := scanner.Text()

	traceID := ulid.Make()
	results := runQuery(line, lex, commonWords, gst, docPairs, blacklist, cfg.UseGST, logger, traceID)

	if len(results) > 10 {
		results = results[:10]
	}

	docIDs := make([]uint32, len(results))
	for i, r := range results {
		docIDs[i] = r.DocID
	}
	meta, err := repo.ReadPageMeta(ctx, docIDs)
	if err != nil {
		logger.Warn("decorating results", "error", err, "trace_id", traceID.String())
		meta = map[uint32]telusuri.PageMeta{}
	}

	for _, r := range results {
		m := meta[r.DocID]
		fmt.Printf("%d | %.4f | %s | %s\n", r.DocID, r.Score, m.Title, m.URL)
	}

	return 0
}

// runQuery recovers from any ranker-stage panic (§7) and logs it rather than
// crashing the interactive shell; a recovered query returns no results.
func runQuery(
	line string,
	lex telusuri.Lexicon,
	commonWords map[string]struct{},
	gst *telusuri.GST,
	docPairs telusuri.DocPairs,
	blacklist map[uint32]struct{},
	useGST bool,
	logger *slog.Logger,
	traceID ulid.ULID,
) (results []telusuri.RankedDoc) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("ranker panic recovered", "recovered", r, "query", line, "trace_id", traceID.String())
			results = nil
		}
	}()

	q := telusuri.ParseQuery(line, lex, commonWords)
	params := telusuri.DefaultRankerParams()

	logger.Info("query", "raw", line, "trace_id", traceID.String())

	if useGST && gst != nil {
		return telusuri.RankGST(q, gst, docPairs, blacklist, params)
	}
	return telusuri.RankPlain(q, blacklist, params)
}
