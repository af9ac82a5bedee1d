package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/llmready"
	"github.com/fwojciec/llmready/convert"
	"github.com/fwojciec/llmready/glob"
	"github.com/fwojciec/llmready/goquery"
	"github.com/fwojciec/llmready/htmltomarkdown"
	llmhttp "github.com/fwojciec/llmready/http"
	"github.com/fwojciec/llmready/readability"
	llmslog "github.com/fwojciec/llmready/slog"
	"github.com/fwojciec/llmready/sqlite"
	"github.com/fwojciec/llmready/trafilatura"
	"github.com/fwojciec/llmready/yaml"
)

func main() {
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
	// Cache database path used when --db is not given.
	DBPath string

	// SQLite database backing the cache.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
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
		kong.Name("llmready"),
		kong.Description("Serve and export Markdown versions of HTML sites."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'llmready --help' to see available commands")
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

	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	dbPath := m.DBPath
	if cli.DB != "" {
		dbPath = cli.DB
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LLMREADY_DB to use a different cache database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	store := sqlite.NewCache(m.DB)
	deps.Expired = store
	deps.Cache = llmslog.NewLoggingCache(store, deps.Logger)

	filter, err := glob.NewRouteFilter(cfg.ExcludePatterns)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}
	deps.Filter = filter

	deps.Service = NewService(cfg, deps.Cache, deps.Logger)
	deps.Pages = llmslog.NewLoggingPageConverter(deps.Service, deps.Logger)

	fetcher := llmhttp.NewFetcher(llmhttp.WithMaxBytes(int64(cfg.MaxInputBytes)))
	defer fetcher.Close()
	deps.Fetcher = llmslog.NewLoggingFetcher(fetcher, deps.Logger)
	deps.Sitemaps = llmhttp.NewSitemapService(nil)

	return kongCtx.Run(deps)
}

// NewService wires the conversion pipeline described by cfg.
func NewService(cfg *llmready.Config, cache llmready.Cache, logger *slog.Logger) *convert.Service {
	return &convert.Service{
		Config:      cfg,
		Parser:      goquery.NewParser(cfg),
		Metadata:    &goquery.MetadataReader{},
		Frontmatter: &yaml.FrontmatterEncoder{},
		Eyebrows:    &goquery.EyebrowMarker{},
		Extractor:   NewExtractor(cfg.Extractor),
		Converter:   htmltomarkdown.NewConverter(htmltomarkdown.WithTables(cfg.TableSupport)),
		Cache:       cache,
		Logger:      logger,
	}
}

// NewExtractor returns the content extractor registered under name.
// Unknown names use the default selector-based extractor.
func NewExtractor(name string) llmready.ContentExtractor {
	switch name {
	case llmready.ExtractorFallback:
		return &goquery.FallbackExtractor{}
	case llmready.ExtractorTrafilatura:
		return trafilatura.NewExtractor()
	case llmready.ExtractorReadability:
		return readability.NewExtractor()
	default:
		return &goquery.DefaultExtractor{}
	}
}

// loadConfig reads the YAML file at path, or returns the defaults when
// path is empty.
func loadConfig(path string) (*llmready.Config, error) {
	if path == "" {
		return llmready.DefaultConfig(), nil
	}
	return yaml.LoadConfigFile(path)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "llmready.db"
	}
	dir := filepath.Join(home, ".llmready")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
