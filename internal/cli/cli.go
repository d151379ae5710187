package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/event-scraper/internal/config"
	"github.com/pfrederiksen/event-scraper/internal/fetch"
	"github.com/pfrederiksen/event-scraper/internal/logger"
	"github.com/pfrederiksen/event-scraper/internal/metrics"
	"github.com/pfrederiksen/event-scraper/internal/scraper"
	"github.com/pfrederiksen/event-scraper/internal/server"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNoResult = 2
)

// errNoResult marks a run that completed but produced nothing usable.
var errNoResult = errors.New("no result")

var (
	flagConfig     string
	flagFormat     string
	flagVerbose    bool
	flagUserAgent  string
	flagTimeout    float64
	flagNavTimeout float64
	flagChromePath string
	flagLogLevel   string
)

// newService builds the scraper used by every command. Tests replace it.
var newService = func(cfg config.Config, log *logger.Logger, m *metrics.Metrics) server.Service {
	static := fetch.NewHTTPFetcher(cfg.UserAgent, cfg.RequestTimeout)
	browser := fetch.NewBrowser(fetch.BrowserOptions{
		UserAgent:  cfg.UserAgent,
		NavTimeout: cfg.NavTimeout,
		GraceDelay: cfg.GraceDelay,
		Quality:    cfg.ScreenshotQuality,
		Headless:   cfg.Headless,
		ExecPath:   cfg.ChromePath,
	})
	return scraper.New(static, browser, scraper.WithLogger(log), scraper.WithMetrics(m))
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event-scraper",
		Short: "Extract structured event data from event pages",
		Long: `A CLI tool to extract structured event records from event pages.
Pages are fetched statically first and rendered in headless Chrome when the
static page does not yield enough data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	pf.StringVar(&flagUserAgent, "user-agent", "", "User agent for page requests")
	pf.Float64Var(&flagTimeout, "timeout", 0, "HTTP timeout in seconds")
	pf.Float64Var(&flagNavTimeout, "nav-timeout", 0, "Browser navigation timeout in seconds")
	pf.StringVar(&flagChromePath, "chrome-path", "", "Chrome or Chromium binary")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newScrapeCmd(),
		newSearchCmd(),
		newMediaCmd(),
		newTicketsCmd(),
		newICSCmd(),
		newPDFCmd(),
		newServeCmd(),
	)
	return cmd
}

// env is what every command needs to run.
type env struct {
	cfg     config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	svc     server.Service
	format  OutputFormat
}

// setup loads settings, applies flag overrides and builds the service.
func setup(cmd *cobra.Command) (*env, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if flagVerbose && level != logger.LevelDebug {
		level = logger.LevelDebug
	}
	log := logger.NewWithFormat(level, cfg.LogFormat, cmd.ErrOrStderr())
	logger.SetDefault(log)

	m := metrics.New()
	return &env{
		cfg:     cfg,
		log:     log,
		metrics: m,
		svc:     newService(cfg, log, m),
		format:  format,
	}, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("user-agent") {
		cfg.UserAgent = flagUserAgent
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = seconds(flagTimeout)
	}
	if flags.Changed("nav-timeout") {
		cfg.NavTimeout = seconds(flagNavTimeout)
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = flagChromePath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errNoResult):
		stop()
		os.Exit(ExitNoResult)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
