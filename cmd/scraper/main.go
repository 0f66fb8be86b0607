// Package main provides the scraper command that refreshes the stored UF series.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ufscraper/internal/config"
	"ufscraper/internal/crawler"
	"ufscraper/internal/formatter"
	"ufscraper/internal/logger"
	"ufscraper/internal/normalizer"
	"ufscraper/internal/storage"
)

const defaultConfigPath = "configs/scraper.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+defaultConfigPath+" if present)")
	targetURL := flag.String("url", "", "Source page URL (overrides config)")
	localFile := flag.String("file", "", "Local HTML file to parse instead of fetching")
	output := flag.String("output", "", "Output JSON file path (overrides config)")
	series := flag.String("series", "", "Series label to extract (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	preview := flag.Int("preview", 0, "Print the latest N records after saving")
	dumpConfig := flag.String("dump-config", "", "Write the effective configuration as YAML to this path and exit")

	flag.Parse()

	// Until the config is known, report on stderr at info level
	bootLog := logger.NewLogger("info")

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootLog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		bootLog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg.SetSource(*targetURL, *localFile)

	if *output != "" {
		cfg.Output.Path = *output
	}

	if *series != "" {
		cfg.Series.Label = *series
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		bootLog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if *dumpConfig != "" {
		if err := cfg.SaveConfig(*dumpConfig); err != nil {
			bootLog.Error("Failed to write configuration", "path", *dumpConfig, "error", err)
			os.Exit(1)
		}

		bootLog.Info("Wrote configuration", "path", *dumpConfig)

		return
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format).WithRun()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *preview); err != nil {
		log.Error("Scrape failed", "error", err)
		stop()
		os.Exit(1)
	}
}

// loadConfig reads path, or the default config file when it exists, and
// falls back to defaults plus environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, preview int) error {
	log.Info("Starting UF scrape", "config", cfg.String())

	processor := normalizer.NewProcessor(
		normalizer.WithSeriesLabel(cfg.Series.Label),
		normalizer.WithExcludedColumns(cfg.Series.ExcludeColumns...),
	)
	client := crawler.NewClientWithDeps(crawler.NewScraperWithConfig(&cfg.HTTP), processor, log)

	source := cfg.Source.GetSource()

	records, err := client.GetUFData(ctx, source)
	if err != nil {
		return err
	}

	dataset, err := storage.NewWriter().Save(records, source, cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", cfg.Output.Path, err)
	}

	log.Info("Saved series",
		"path", cfg.Output.Path,
		"records", len(dataset.Data),
		"first", dataset.FirstDate(),
		"last", dataset.LastDate(),
		"updated_at", dataset.UpdatedAt,
	)

	if preview > 0 {
		fmt.Print(formatter.FormatRecords(dataset.Data, preview))
	}

	return nil
}
