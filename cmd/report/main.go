package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"QuoteReport/internal/collector"
	"QuoteReport/internal/config"
	"QuoteReport/internal/model"
	"QuoteReport/internal/normalizer"
	"QuoteReport/internal/report"
	"QuoteReport/internal/scheduler"
)

const (
	exitOK          = 0
	exitQuoteSource = 1
	exitFailure     = 2
)

type cliFlags struct {
	tickers  string
	rng      string
	interval string
	token    string
	out      string
	config   string
	mock     bool
	mockSet  bool
	args     []string
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		log.Printf("[FATAL] %v", err)
		return exitFailure
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if flags.config != "" {
		cfgPath = flags.config
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("[FATAL] load config: %v", err)
		return exitFailure
	}
	applyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		log.Printf("[FATAL] config validation: %v", err)
		return exitFailure
	}

	var fetcher collector.Fetcher
	if cfg.DataSource.Mock {
		fetcher = &collector.MockFetcher{}
	} else {
		fetcher = collector.NewBrapiFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Token, cfg.Proxy, cfg.Timeout())
	}
	if ttl := cfg.CacheTTL(); ttl > 0 {
		fetcher = collector.NewCachedFetcher(fetcher, uint(cfg.DataSource.CacheCapacity), ttl)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	job := &reportJob{
		Collector: collector.NewCollector(fetcher, cfg.DataSource.MaxTickersPerRequest, cfg.DataSource.MaxConcurrency),
		Renderer:  report.NewRenderer(report.NewChromePrinter(cfg.RenderTimeout())),
		Request: collector.Request{
			Tickers:  cfg.Query.Tickers,
			Range:    cfg.Query.Range,
			Interval: cfg.Query.Interval,
			Token:    cfg.DataSource.Token,
		},
		Title:      cfg.ReportTitle(),
		AssetsHost: cfg.Report.AssetsHost,
		Out:        cfg.Report.Out,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Schedule.Cron == "" {
		if err := job.Run(ctx); err != nil {
			log.Printf("[ERROR] %v", err)
			return exitCode(err)
		}
		return exitOK
	}

	sched := scheduler.NewScheduler(ctx, "report", job.Run)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Printf("[FATAL] register cron task: %v", err)
		return exitFailure
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing report task now")
		go sched.RunNow()
	}

	log.Println("[INFO] QuoteReport is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	return exitOK
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.StringVar(&f.tickers, "tickers", "", "comma separated tickers, e.g. PETR4,VALE3")
	fs.StringVar(&f.rng, "range", "", "history range (1d,5d,1mo,3mo,6mo,1y,2y,5y,10y,ytd,max)")
	fs.StringVar(&f.interval, "interval", "", "bar interval (1d,1wk,1mo,...)")
	fs.StringVar(&f.token, "token", "", "brapi token (default BRAPI_TOKEN)")
	fs.StringVar(&f.out, "out", "", "output file; .html writes HTML, anything else PDF")
	fs.StringVar(&f.config, "config", "", "config file (default CONFIG_PATH or configs/config.yaml)")
	fs.BoolVar(&f.mock, "mock", false, "use synthetic quotes instead of brapi.dev")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "mock" {
			f.mockSet = true
		}
	})
	f.args = fs.Args()
	return f, nil
}

func applyFlags(cfg *config.Config, f cliFlags) {
	tickers := config.SplitTickers(f.tickers)
	for _, a := range f.args {
		tickers = append(tickers, config.SplitTickers(a)...)
	}
	if len(tickers) > 0 {
		cfg.Query.Tickers = tickers
	}
	if f.rng != "" {
		cfg.Query.Range = f.rng
	}
	if f.interval != "" {
		cfg.Query.Interval = f.interval
	}
	if f.token != "" {
		cfg.DataSource.Token = f.token
	}
	if f.out != "" {
		cfg.Report.Out = f.out
	}
	if f.mockSet {
		cfg.DataSource.Mock = f.mock
	}
}

// exitCode maps quote-source errors to 1 and everything else to 2.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, normalizer.ErrUpstreamResponse),
		errors.Is(err, normalizer.ErrEmptySeries),
		errors.Is(err, collector.ErrUpstreamStatus):
		return exitQuoteSource
	default:
		return exitFailure
	}
}

// reportRenderer is satisfied by *report.Renderer.
type reportRenderer interface {
	Render(ctx context.Context, set *model.SeriesSet, meta report.Meta, out string) (string, error)
}

type reportJob struct {
	Collector  *collector.Collector
	Renderer   reportRenderer
	Request    collector.Request
	Title      string
	AssetsHost string
	Out        string
}

// Run is one fetch, normalize and render pass.
func (j *reportJob) Run(ctx context.Context) error {
	res, err := j.Collector.Collect(ctx, j.Request)
	if err != nil {
		return fmt.Errorf("collect %s: %w", strings.Join(j.Request.Tickers, ","), err)
	}
	for _, s := range res.Series.All() {
		log.Printf("[OK] %s: rows=%d from %s to %s", s.Symbol, s.Len(),
			s.FirstDate().Format("2006-01-02"), s.LastDate().Format("2006-01-02"))
	}
	path, err := j.Renderer.Render(ctx, res.Series, report.NewMeta(j.Title, j.AssetsHost), j.Out)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	log.Printf("[DONE] report written to %s", path)
	return nil
}
