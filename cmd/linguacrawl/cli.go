package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/linguacrawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Logger is nil unless --verbose is set.
	Logger *slog.Logger

	Checkpoints linguacrawl.StatusStore
	// CheckpointPath names the file or database behind Checkpoints.
	CheckpointPath string

	Pages       linguacrawl.PageService
	Sitemaps    linguacrawl.SitemapService
	Analyzer    linguacrawl.Analyzer
	RateLimiter linguacrawl.DomainLimiter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB         string `env:"LINGUACRAWL_DB" help:"SQLite database for checkpoints and pages"`
	StatusFile string `name:"status-file" help:"Keep checkpoints in a JSON file instead of the database"`
	Verbose    bool   `short:"v" help:"Log fetches, frontier events and checkpoints to stderr"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl from seed URLs, preferring target languages"`
	Status StatusCmd `cmd:"" help:"Show the saved checkpoint and page counts"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URLs []string `arg:"" name:"url" optional:"" help:"Seed URLs"`

	Langs           []string      `short:"l" env:"LINGUACRAWL_LANGS" help:"Target language codes, comma separated (e.g. fi,sv)"`
	Queue           string        `enum:"language,fifo" default:"language" help:"Frontier policy: language or fifo"`
	Concurrency     int           `short:"c" default:"4" help:"Concurrent fetch limit"`
	MaxPages        int           `name:"max-pages" help:"Stop after dispatching this many URLs (0 = unlimited)"`
	CheckpointEvery int           `name:"checkpoint-every" default:"100" help:"Handled URLs between checkpoints"`
	Resume          bool          `help:"Resume from the saved checkpoint"`
	RPS             float64       `name:"rps" default:"1" help:"Requests per second per host (0 = unlimited)"`
	Timeout         time.Duration `default:"10s" help:"Fetch timeout"`
	Browser         bool          `help:"Render pages in a headless browser"`
	Extractor       string        `enum:"trafilatura,readability" default:"trafilatura" help:"Body text extractor"`
	AllowHost       []string      `name:"allow-host" help:"Restrict links to these host suffixes (repeatable)"`
	Include         []string      `help:"Only follow URLs matching this regex (repeatable)"`
	Exclude         []string      `help:"Never follow URLs matching this regex (repeatable)"`
	Sitemaps        bool          `help:"Add sitemap URLs of each seed host to the seeds"`
	Out             string        `type:"path" help:"Write page text under this directory instead of the database"`
	Bloom           uint          `help:"Use a Bloom filter sized for this many URLs for deduplication (0 = exact)"`
	MetricsAddr     string        `name:"metrics-addr" help:"Serve /healthz, /status and /metrics on this address"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	Language string `help:"List stored pages in this language"`
	Limit    int    `default:"20" help:"Maximum number of pages to list"`
}
