package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/linguacrawl"
	"github.com/fwojciec/linguacrawl/charset"
	"github.com/fwojciec/linguacrawl/crawl"
	"github.com/fwojciec/linguacrawl/fs"
	"github.com/fwojciec/linguacrawl/goquery"
	lchttp "github.com/fwojciec/linguacrawl/http"
	"github.com/fwojciec/linguacrawl/readability"
	"github.com/fwojciec/linguacrawl/rod"
	lcslog "github.com/fwojciec/linguacrawl/slog"
	"github.com/fwojciec/linguacrawl/sqlite"
	"github.com/fwojciec/linguacrawl/trafilatura"
	"github.com/fwojciec/linguacrawl/whatlanggo"
)

func main() {
	// Interrupts cancel the crawl, which still writes its final checkpoint.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	// Database path used when --db is not given. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher closed by Close.
	Fetcher linguacrawl.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.Fetcher != nil {
		if err := m.Fetcher.Close(); err != nil {
			return err
		}
	}
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
		kong.Name("linguacrawl"),
		kong.Description("Crawl the web preferring pages in target languages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'linguacrawl --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LINGUACRAWL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	deps.Pages = sqlite.NewPageService(m.DB)
	if cli.StatusFile != "" {
		file := fs.NewStatusFile(cli.StatusFile)
		deps.Checkpoints = file
		deps.CheckpointPath = file.Path()
	} else {
		deps.Checkpoints = sqlite.NewStatusStore(m.DB)
		deps.CheckpointPath = dbPath
	}
	var sitemapOpts []lchttp.SitemapOption
	// Invalid codes are reported by the crawl command itself.
	if langs, err := linguacrawl.ParseLanguages(cli.Crawl.Langs); err == nil {
		sitemapOpts = append(sitemapOpts, lchttp.WithHreflang(langs))
	}
	deps.Sitemaps = lchttp.NewSitemapService(nil, sitemapOpts...)

	if deps.Logger != nil {
		deps.Checkpoints = lcslog.NewLoggingStatusStore(deps.Checkpoints, deps.Logger)
		deps.Sitemaps = lcslog.NewLoggingSitemapService(deps.Sitemaps, deps.Logger)
	}

	if strings.HasPrefix(kongCtx.Command(), "crawl") {
		analyzer, err := m.newAnalyzer(&cli.Crawl, deps.Logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to start fetcher: %w", err)
		}
		deps.Analyzer = analyzer
		deps.RateLimiter = crawl.NewDomainLimiter(cli.Crawl.RPS)
	}

	return kongCtx.Run(deps)
}

// newAnalyzer wires the document pipeline selected by the crawl flags.
func (m *Main) newAnalyzer(c *CrawlCmd, logger *slog.Logger) (*crawl.Analyzer, error) {
	var fetcher linguacrawl.Fetcher
	if c.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(c.Timeout))
		if err != nil {
			return nil, err
		}
		fetcher = f
	} else {
		fetcher = lchttp.NewFetcher(lchttp.WithTimeout(c.Timeout))
	}
	m.Fetcher = fetcher

	if logger != nil {
		fetcher = lcslog.NewLoggingFetcher(fetcher, logger)
	}

	var extractor linguacrawl.TextExtractor = trafilatura.NewExtractor()
	if c.Extractor == "readability" {
		extractor = readability.NewExtractor()
	}

	return &crawl.Analyzer{
		Fetcher:          fetcher,
		Decoder:          charset.NewDecoder(),
		TextExtractor:    extractor,
		LanguageDetector: whatlanggo.NewDetector(),
		LinkExtractor:    goquery.NewLinkExtractor(),
	}, nil
}

func defaultDBPath() string {
	if path := os.Getenv("LINGUACRAWL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "linguacrawl.db"
	}
	dir := filepath.Join(home, ".linguacrawl")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "linguacrawl.db")
}
