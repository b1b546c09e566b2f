package csvlate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ClientBuilder constructs the translation client for a run. It is called
// once, before any file is touched.
type ClientBuilder func() (Client, error)

// TableCodec loads and saves localization tables of one file format.
type TableCodec interface {
	Load(path string) (*Table, error)
	Save(path string, table *Table) error
	Extension() string // Lower-case file extension including the dot
}

// BatchConfig configures a folder run.
type BatchConfig struct {
	InputDir          string
	OutputDir         string
	SourceColumn      string // Default: DefaultSourceColumn
	OverwriteExisting bool
	Codec             TableCodec
	Logger            Logger
	Retry             RetryConfig
	Store             TranslationCache
	Markup            bool
}

func (c BatchConfig) sourceColumn() string {
	if c.SourceColumn == "" {
		return DefaultSourceColumn
	}
	return c.SourceColumn
}

// EnsureDirectories creates the input and output directories if needed.
func EnsureDirectories(inputDir, outputDir string) error {
	for _, dir := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// ListFiles returns the regular files in dir whose name ends with ext
// (case-insensitive), in name order.
func ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	ext = strings.ToLower(ext)
	var names []string
	for _, e := range entries {
		if !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, e.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Run translates every table file of cfg.InputDir into cfg.OutputDir under
// the same name. Only pre-flight failures are returned as errors; a failing
// file is logged, counted once in Summary.Errors and skipped.
func Run(ctx context.Context, build ClientBuilder, cfg BatchConfig) (*Summary, error) {
	log := cfg.Logger

	if err := EnsureDirectories(cfg.InputDir, cfg.OutputDir); err != nil {
		return nil, &PreflightError{Message: "cannot create directories", Cause: err}
	}
	if cfg.Codec == nil {
		return nil, &PreflightError{Message: "no table codec configured"}
	}
	if build == nil {
		return nil, &PreflightError{Message: "no translation client configured"}
	}

	client, err := build()
	if err != nil {
		return nil, &PreflightError{Message: "cannot create translation client", Cause: err}
	}

	files, err := ListFiles(cfg.InputDir, cfg.Codec.Extension())
	if err != nil {
		return nil, &PreflightError{Message: "cannot list input directory", Cause: err}
	}

	summary := &Summary{}
	kind := strings.ToUpper(strings.TrimPrefix(cfg.Codec.Extension(), "."))

	if len(files) == 0 {
		log.log("No %s files found in input directory. Please add files and try again.", kind)
		return summary, nil
	}

	log.log("Found %d %s files, starting...", len(files), kind)
	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		log.log("[%d/%d] Processing file: %s", i+1, len(files), name)
		stats, err := runFile(ctx, client, cfg, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return summary, err
			}
			log.log(" - Failed to process: %v", err)
			summary.Errors++
			continue
		}

		line := fmt.Sprintf(" - Rows: %d, Translated cells: %d, Skipped invalid sources: %d, Errors: %d",
			stats.Rows, stats.TranslatedCells, stats.SkippedSourceInvalid, stats.Errors)
		if !cfg.OverwriteExisting {
			line += fmt.Sprintf(", Preserved existing: %d", stats.SkippedExisting)
		}
		log.log("%s", line)

		summary.Files++
		summary.Add(stats)
	}

	log.log("All processing completed.")
	log.log("Files: %d, Total rows: %d, Translated cells: %d, Errors: %d",
		summary.Files, summary.Rows, summary.TranslatedCells, summary.Errors)
	if !cfg.OverwriteExisting {
		log.log("Preserved existing cells count: %d", summary.SkippedExisting)
	}
	return summary, nil
}

// runFile loads, translates and saves one file.
func runFile(ctx context.Context, client Client, cfg BatchConfig, name string) (Stats, error) {
	table, err := cfg.Codec.Load(filepath.Join(cfg.InputDir, name))
	if err != nil {
		return Stats{}, err
	}

	schema, err := DetectSchema(table.Headers, cfg.sourceColumn())
	if err != nil {
		return Stats{}, err
	}

	rows, stats := ProcessRows(ctx, table.Rows, schema, client, ProcessOptions{
		PreserveExisting: !cfg.OverwriteExisting,
		Logger:           cfg.Logger,
		Retry:            cfg.Retry,
		Store:            cfg.Store,
		Markup:           cfg.Markup,
	})
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	table.Rows = rows

	if err := cfg.Codec.Save(filepath.Join(cfg.OutputDir, name), table); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// PlanFolder reports what Run would translate without building a client or
// writing any output. Files that fail to load or have no usable schema are
// logged and counted in the returned error count.
func PlanFolder(cfg BatchConfig) (Plan, int, error) {
	log := cfg.Logger
	if cfg.Codec == nil {
		return Plan{}, 0, &PreflightError{Message: "no table codec configured"}
	}

	files, err := ListFiles(cfg.InputDir, cfg.Codec.Extension())
	if err != nil {
		return Plan{}, 0, &PreflightError{Message: "cannot list input directory", Cause: err}
	}

	var total Plan
	failed := 0
	for _, name := range files {
		table, err := cfg.Codec.Load(filepath.Join(cfg.InputDir, name))
		if err != nil {
			log.log("%s: %v", name, err)
			failed++
			continue
		}
		schema, err := DetectSchema(table.Headers, cfg.sourceColumn())
		if err != nil {
			log.log("%s: %v", name, err)
			failed++
			continue
		}

		plan := PlanRows(table.Rows, schema, !cfg.OverwriteExisting, cfg.Markup)
		log.log("%s: %d rows, %d cells to translate (%d unique), %d preserved, %d invalid sources",
			name, plan.Rows, plan.PendingCells, plan.UniqueRequests, plan.SkippedExisting, plan.SkippedSourceInvalid)
		total.Add(plan)
	}
	return total, failed, nil
}
