package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/moepig/aws-resource-count/config"
	"github.com/moepig/aws-resource-count/report"
	"github.com/moepig/aws-resource-count/resources"
	"github.com/moepig/aws-resource-count/resources/explorer"
)

var errNoProfileCounted = errors.New("no profile could be counted")

// options holds the command line arguments
type options struct {
	profiles   []string
	outputFile string
	configPath string
	logLevel   string
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] PROFILE [PROFILE...]\n\nCount AWS resources by type across the given profiles.\n\nFlags:\n", fs.Name())
		fs.PrintDefaults()
	}

	opts, err := parseArgs(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	// Parse log level
	var logLevel slog.Level
	switch opts.logLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level '%s' (must be debug, info, warn, or error)\n", opts.logLevel)
		fs.Usage()
		os.Exit(1)
	}

	// Initialize slog logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		slog.Error("Failed to load config", "config_path", opts.configPath, "error", err)
		os.Exit(1)
	}

	counter := explorer.NewCounter(explorer.Options{
		Regions:          cfg.Regions,
		DefaultRegion:    cfg.DefaultRegion,
		ViewNamePrefix:   cfg.ViewNamePrefix,
		SearchPageSize:   cfg.SearchPageSize,
		MaxPagesPerQuery: cfg.MaxPagesPerQuery,
	})

	ctx := context.Background()

	// Run the application
	if err := run(ctx, counter, opts.profiles, report.NewWriter(os.Stdout, opts.outputFile)); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// parseArgs parses flags and profile names. Flags may appear before, between
// or after the profiles.
func parseArgs(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	fs.StringVar(&opts.outputFile, "output-file", "", "Optional output file path to write the results")
	fs.StringVar(&opts.outputFile, "output_file", "", "Alias of -output-file")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		opts.profiles = append(opts.profiles, args[0])
		args = args[1:]
	}

	if len(opts.profiles) == 0 {
		return nil, fmt.Errorf("at least one AWS profile is required")
	}

	return opts, nil
}

// run counts the resources of every profile in order and writes the report.
// A failing profile is logged and skipped.
func run(ctx context.Context, counter resources.ProfileCounter, profiles []string, w *report.Writer) error {
	counts := resources.Counts{}
	succeeded := 0

	for _, profile := range profiles {
		slog.Info("Counting resources", "profile", profile)

		result, err := counter.CountProfile(ctx, profile, counts)
		if err != nil {
			logProfileError(profile, err)
			continue
		}

		for _, warning := range result.Warnings {
			slog.Warn("Resource count incomplete",
				"profile", profile,
				"error", warning,
				"error_code", explorer.ErrorCode(warning))
		}

		slog.Info("Counted resources",
			"profile", profile,
			"account_id", result.AccountID,
			"count", result.Resources,
			"warnings", len(result.Warnings))
		succeeded++
	}

	if err := w.Write(report.New(counts)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if succeeded == 0 {
		return errNoProfileCounted
	}
	return nil
}

func logProfileError(profile string, err error) {
	attrs := []any{"profile", profile, "error", err}
	if code := explorer.ErrorCode(err); code != "" {
		attrs = append(attrs, "error_code", code)
	}
	if errors.Is(err, explorer.ErrViewCreation) {
		attrs = append(attrs, "hint", "Please ensure Resource Explorer is enabled in your account and you have sufficient permissions")
	}
	slog.Error("Failed to count resources", attrs...)
}
