package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webqa"
	"github.com/fwojciec/webqa/bm25"
	"github.com/fwojciec/webqa/brave"
	"github.com/fwojciec/webqa/crawl"
	"github.com/fwojciec/webqa/fs"
	"github.com/fwojciec/webqa/gemini"
	"github.com/fwojciec/webqa/goquery"
	"github.com/fwojciec/webqa/htmltomarkdown"
	webqahttp "github.com/fwojciec/webqa/http"
	"github.com/fwojciec/webqa/pipeline"
	"github.com/fwojciec/webqa/readability"
	"github.com/fwojciec/webqa/rod"
	"github.com/fwojciec/webqa/search"
	webqaslog "github.com/fwojciec/webqa/slog"
	"github.com/fwojciec/webqa/sqlite"
	"github.com/fwojciec/webqa/trafilatura"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Overrides the config file; --db and WEBQA_DB override it.
	DBPath string

	// Config overrides loading the config file when set.
	Config *Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	AnswerService *sqlite.AnswerService
	CacheService  *sqlite.CacheService
	Asker         webqa.Asker
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webqa"),
		kong.Description("Answer questions from the web, with a local cache."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'webqa --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := m.loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBQA_CONFIG or --config to use a different config file\n")
		return err
	}

	logger := newLogger(stderr, cli.Verbose)
	deps.Logger = logger

	dbPath := m.dbPath(cli.DB, cfg)
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WEBQA_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.AnswerService = sqlite.NewAnswerService(m.DB, cfg.Cache)
	m.CacheService = sqlite.NewCacheService(m.DB, cfg.Cache)
	deps.DB = m.DB
	deps.Answers = m.AnswerService
	deps.Maintainer = m.CacheService
	deps.Export = func(dir string) AnswerExporter {
		return fs.NewExporter(dir)
	}

	if kongCtx.Selected() != nil && kongCtx.Selected().Name == "ask" {
		asker := m.Asker
		if asker == nil {
			orchestrator, closeFn, err := m.newOrchestrator(ctx, &cli.Ask, cfg, logger, cli.Verbose, stderr)
			if err != nil {
				return err
			}
			defer closeFn()
			asker = orchestrator
		}
		deps.Asker = asker

		// Expired entries are swept while the question is answered.
		sweepCtx, cancel := context.WithCancel(ctx)
		var g errgroup.Group
		g.Go(func() error {
			sweeper := &pipeline.Sweeper{
				Cache:    m.CacheService,
				Interval: cfg.SweepInterval,
				Logger:   logger,
			}
			return sweeper.Run(sweepCtx)
		})
		defer func() {
			cancel()
			_ = g.Wait()
		}()
	}

	return kongCtx.Run(deps)
}

func (m *Main) loadConfig(path string) (Config, error) {
	if m.Config != nil {
		return *m.Config, nil
	}
	return LoadConfig(path)
}

// dbPath resolves the database path: flag or env, then Main, then the
// config file, then the XDG data directory.
func (m *Main) dbPath(flag string, cfg Config) string {
	switch {
	case flag != "":
		return flag
	case m.DBPath != "":
		return m.DBPath
	case cfg.DBPath != "":
		return cfg.DBPath
	}
	return DefaultDBPath()
}

// newOrchestrator wires the question answering pipeline. The returned func
// releases the page fetcher.
func (m *Main) newOrchestrator(ctx context.Context, cmd *AskCmd, cfg Config, logger *slog.Logger, verbose bool, stderr io.Writer) (*pipeline.Orchestrator, func(), error) {
	provider, err := newSearchProvider(cmd.Provider, cmd.BraveKey)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set BRAVE_SEARCH_API_KEY or use --provider duckduckgo. Get a key at https://api-dashboard.search.brave.com")
		return nil, nil, err
	}

	if cmd.GeminiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cmd.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	var fetcher webqa.Fetcher
	if cmd.Browser {
		fetcher, err = rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
	} else {
		fetcher = webqahttp.NewFetcher()
	}

	var selector webqa.Selector = bm25.NewSelector()
	var answerer webqa.Answerer = gemini.NewAnswerer(client.Models, cfg.Model)

	if verbose {
		provider = webqaslog.NewLoggingSearchProvider(provider, logger)
		fetcher = webqaslog.NewLoggingFetcher(fetcher, logger)
		selector = webqaslog.NewLoggingSelector(selector, logger)
		answerer = webqaslog.NewLoggingAnswerer(answerer, logger)
	}

	collector := &crawl.Collector{
		Fetcher:     fetcher,
		Extractor:   trafilatura.NewExtractor(),
		Fallback:    readability.NewExtractor(),
		Converter:   htmltomarkdown.NewConverter(),
		Pages:       sqlite.NewPageService(m.DB, cfg.Cache),
		RateLimiter: crawl.NewDomainLimiter(cfg.FetchRPS),
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	}
	if verbose {
		collector.Progress = progressLogger(logger)
	}

	orchestrator := &pipeline.Orchestrator{
		Answers:       m.AnswerService,
		Searcher:      search.NewGateway(provider, sqlite.NewSearchResultService(m.DB, cfg.Cache), cfg.Search, logger),
		Collector:     collector,
		Selector:      selector,
		Answerer:      answerer,
		MaxPages:      cfg.MaxPages,
		MinConfidence: cfg.MinConfidence,
		Refresh:       cmd.Refresh,
		Logger:        logger,
	}
	if verbose {
		orchestrator.OnTransition = webqaslog.StateLogger(logger)
	}

	if err := orchestrator.Prepare(ctx); err != nil {
		_ = fetcher.Close()
		fmt.Fprintf(stderr, "Hint: Check GEMINI_API_KEY and that model %q is available\n", cfg.Model)
		return nil, nil, fmt.Errorf("failed to prepare model: %w", err)
	}

	return orchestrator, func() { _ = fetcher.Close() }, nil
}

// newSearchProvider returns the provider named by name. "auto" picks Brave
// when an API key is set and DuckDuckGo otherwise.
func newSearchProvider(name, braveKey string) (webqa.SearchProvider, error) {
	switch name {
	case "", "auto":
		if braveKey != "" {
			return brave.NewProvider(braveKey), nil
		}
		return goquery.NewDuckDuckGo("", nil), nil
	case brave.Name:
		if braveKey == "" {
			return nil, webqa.Errorf(webqa.EINVALID, "BRAVE_SEARCH_API_KEY not set")
		}
		return brave.NewProvider(braveKey), nil
	case goquery.DuckDuckGoName:
		return goquery.NewDuckDuckGo("", nil), nil
	}
	return nil, webqa.Errorf(webqa.EINVALID, "unknown search provider %q", name)
}

// newLogger returns a text logger on w. Verbose output includes stage and
// timing logs; otherwise only warnings and errors are written.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// progressLogger reports page collection progress at debug level.
func progressLogger(logger *slog.Logger) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressCompleted:
			logger.Debug("page collected", "url", e.URL, "completed", e.Completed, "total", e.Total)
		case crawl.ProgressFailed:
			logger.Debug("page failed", "url", e.URL, "completed", e.Completed, "total", e.Total, "err", e.Error)
		}
	}
}
