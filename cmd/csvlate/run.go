package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZaguanLabs/csvlate"
	"github.com/ZaguanLabs/csvlate/cache"
	"github.com/ZaguanLabs/csvlate/config"
	"github.com/ZaguanLabs/csvlate/processor"
	"github.com/ZaguanLabs/csvlate/provider"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type runOptions struct {
	*globalOptions

	input     string
	output    string
	source    string
	overwrite bool
	markup    bool

	provider string
	apiKey   string
	model    string
	baseURL  string
	rpm      int
	retries  int

	redisURL  string
	cacheFile string

	dryRun  bool
	jsonOut bool
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Translate every CSV file of the input folder",
		Long: `Translate every CSV file of the input folder into the output folder.

By default only empty target cells are filled; use --overwrite to replace
existing translations. Files that fail are reported and skipped.`,
		Example: `  csvlate run
  csvlate run --input strings --output translated --overwrite
  csvlate run --dry-run --json
  csvlate run --provider openai --model gpt-4o-mini --rpm 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			return runTranslate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "Input folder (default: input)")
	f.StringVarP(&opts.output, "output", "o", "", "Output folder (default: output)")
	f.StringVar(&opts.source, "source", "", "Source column header (default: "+csvlate.DefaultSourceColumn+")")
	f.BoolVar(&opts.overwrite, "overwrite", false, "Replace existing translations")
	f.BoolVar(&opts.markup, "markup", false, "Protect inline HTML tags in source text")
	f.StringVarP(&opts.provider, "provider", "p", "", "Translation service: "+strings.Join(provider.Names(), ", "))
	f.StringVar(&opts.apiKey, "api-key", "", "API key (default: "+config.EnvAPIKey+" or the service's env variable)")
	f.StringVar(&opts.model, "model", "", "Model name (openai only)")
	f.StringVar(&opts.baseURL, "base-url", "", "Override the service endpoint")
	f.IntVar(&opts.rpm, "rpm", 0, "Maximum requests per minute (0 = unlimited)")
	f.IntVar(&opts.retries, "retries", 0, "Attempts per cell (default: 5)")
	f.StringVar(&opts.redisURL, "redis-url", "", "Share translations through Redis")
	f.StringVar(&opts.cacheFile, "cache-file", "", "Load and save translations in a JSON snapshot")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Count pending cells without calling the service")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the summary as JSON")

	cmd.MarkFlagsMutuallyExclusive("redis-url", "cache-file")

	return cmd
}

// apply overrides project file settings with flags given on the command line.
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.File) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.InputDir = o.input
	}
	if f.Changed("output") {
		cfg.OutputDir = o.output
	}
	if f.Changed("source") {
		cfg.SourceColumn = o.source
	}
	if f.Changed("overwrite") {
		cfg.Overwrite = o.overwrite
	}
	if f.Changed("markup") {
		cfg.Markup = o.markup
	}
	if f.Changed("provider") {
		cfg.Provider = o.provider
	}
	if f.Changed("model") {
		cfg.Model = o.model
	}
	if f.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if f.Changed("rpm") {
		cfg.RequestsPerMinute = o.rpm
	}
	if f.Changed("retries") {
		cfg.Retry.MaxAttempts = o.retries
	}
	if f.Changed("redis-url") {
		cfg.Cache.RedisURL = o.redisURL
		cfg.Cache.File = ""
	}
	if f.Changed("cache-file") {
		cfg.Cache.File = o.cacheFile
		cfg.Cache.RedisURL = ""
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.TimeOnly,
	})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// logLine forwards one progress line. Per-cell lines are debug output.
func logLine(logger *logrus.Logger, line string) {
	switch {
	case strings.HasPrefix(line, "  -> FAILED"):
		logger.Warn(strings.TrimSpace(line))
	case strings.HasPrefix(line, "Translating row"), strings.HasPrefix(line, "  ->"):
		logger.Debug(strings.TrimSpace(line))
	default:
		logger.Info(strings.TrimSpace(line))
	}
}

// clientBuilder resolves the credential lazily so a dry run never needs one.
func clientBuilder(cfg *config.File, apiKeyFlag string, logger *logrus.Logger) csvlate.ClientBuilder {
	return func() (csvlate.Client, error) {
		key, source := config.ResolveAPIKey(apiKeyFlag, cfg.Provider, cfg, nil)
		if source != "" {
			logger.WithField("source", source).Debug("Using API key")
		}
		return provider.New(provider.Config{
			Name:              cfg.Provider,
			APIKey:            key,
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
	}
}

// openStore opens the shared translation store, if any. The returned close
// function persists a snapshot store.
func openStore(cfg *config.File, logger *logrus.Logger) (csvlate.TranslationCache, func() error, error) {
	switch {
	case cfg.Cache.RedisURL != "":
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.Cache.RedisURL,
			TTL: cfg.Cache.TTL,
			OnError: func(err error) {
				logger.WithError(err).Warn("Redis lookup failed")
			},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.WithField("url", cfg.Cache.RedisURL).Debug("Using Redis translation store")
		return rc, rc.Close, nil

	case cfg.Cache.File != "":
		mc := cache.NewInMemoryCache(0)
		res, err := cache.NewImporter(mc).ImportFromFile(cfg.Cache.File)
		if err != nil {
			return nil, nil, fmt.Errorf("loading %s: %w", cfg.Cache.File, err)
		}
		logger.WithFields(logrus.Fields{
			"file":     cfg.Cache.File,
			"imported": res.Imported,
			"failed":   res.Failed,
		}).Debug("Loaded translation snapshot")

		save := func() error {
			meta := map[string]string{"generator": csvlate.Name + " " + csvlate.FullVersion()}
			return cache.NewExporter(mc).ExportToFile(cfg.Cache.File, meta)
		}
		return mc, save, nil
	}
	return nil, func() error { return nil }, nil
}

func runTranslate(ctx context.Context, stdout, stderr io.Writer, opts *runOptions, cfg *config.File) error {
	logger := newLogger(stderr, opts.verbose)

	batch := csvlate.BatchConfig{
		InputDir:          cfg.InputDir,
		OutputDir:         cfg.OutputDir,
		SourceColumn:      cfg.SourceColumn,
		OverwriteExisting: cfg.Overwrite,
		Codec:             processor.NewCSVCodec(),
		Retry:             cfg.RetryConfig(),
		Markup:            cfg.Markup,
	}

	if opts.dryRun {
		return runDryRun(stdout, logger, opts.jsonOut, batch)
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return &csvlate.PreflightError{Message: "cannot open translation store", Cause: err}
	}
	batch.Store = store

	summary, runErr := runHosted(ctx, logger, clientBuilder(cfg, opts.apiKey, logger), batch)

	if err := closeStore(); err != nil {
		logger.WithError(err).Warn("Saving translation store failed")
	}
	if runErr != nil {
		return runErr
	}
	return printSummary(stdout, summary, opts.jsonOut, !cfg.Overwrite)
}

// runHosted runs the batch on a worker goroutine and renders its progress
// lines until the worker finishes.
func runHosted(ctx context.Context, logger *logrus.Logger, build csvlate.ClientBuilder, batch csvlate.BatchConfig) (*csvlate.Summary, error) {
	queue := csvlate.NewLogQueue(4096)
	batch.Logger = queue.Logger()

	var sup csvlate.Supervisor
	var summary *csvlate.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for line := range queue.Lines() {
			logLine(logger, line)
		}
		return nil
	})
	g.Go(func() error {
		done, err := sup.Start(gctx, func(ctx context.Context) error {
			defer queue.Close()
			s, err := csvlate.Run(ctx, build, batch)
			summary = s
			return err
		})
		if err != nil {
			queue.Close()
			return err
		}
		return <-done
	})

	err := g.Wait()
	if n := queue.Dropped(); n > 0 {
		logger.WithField("dropped", n).Warn("Progress output fell behind")
	}
	return summary, err
}

func runDryRun(stdout io.Writer, logger *logrus.Logger, jsonOut bool, batch csvlate.BatchConfig) error {
	batch.Logger = func(line string) { logger.Info(line) }

	plan, failed, err := csvlate.PlanFolder(batch)
	if err != nil {
		return err
	}

	if jsonOut {
		out := struct {
			Rows                 int `json:"rows"`
			PendingCells         int `json:"pending_cells"`
			UniqueRequests       int `json:"unique_requests"`
			SkippedExisting      int `json:"skipped_existing"`
			SkippedSourceInvalid int `json:"skipped_source_invalid"`
			FailedFiles          int `json:"failed_files"`
		}{plan.Rows, plan.PendingCells, plan.UniqueRequests, plan.SkippedExisting, plan.SkippedSourceInvalid, failed}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Dry run: %s -> %s\n", batch.InputDir, batch.OutputDir)
	fmt.Fprintf(stdout, "  Rows:               %d\n", plan.Rows)
	fmt.Fprintf(stdout, "  Cells to translate: %d\n", plan.PendingCells)
	fmt.Fprintf(stdout, "  Service requests:   %d\n", plan.UniqueRequests)
	fmt.Fprintf(stdout, "  Preserved existing: %d\n", plan.SkippedExisting)
	fmt.Fprintf(stdout, "  Invalid sources:    %d\n", plan.SkippedSourceInvalid)
	if failed > 0 {
		fmt.Fprintln(stdout, color.RedString("  Unreadable files:   %d", failed))
	}
	return nil
}

func printSummary(w io.Writer, s *csvlate.Summary, jsonOut, preserving bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintln(w, bold("Summary"))
	fmt.Fprintf(w, "  Files:            %d\n", s.Files)
	fmt.Fprintf(w, "  Rows:             %d\n", s.Rows)
	fmt.Fprintln(w, color.GreenString("  Translated cells: %d", s.TranslatedCells))
	if preserving {
		fmt.Fprintf(w, "  Preserved:        %d\n", s.SkippedExisting)
	}
	fmt.Fprintf(w, "  Invalid sources:  %d\n", s.SkippedSourceInvalid)

	errLine := fmt.Sprintf("  Errors:           %d", s.Errors)
	if s.Errors > 0 {
		errLine = color.RedString("%s", errLine)
	}
	fmt.Fprintln(w, errLine)
	return nil
}
