// Command exifstamp stamps photographs with the date they were taken, read
// from their EXIF metadata. Results go to <dir>/<dir name>_watermark/; the
// source files are never modified.
//
// Usage:
//
//	exifstamp [--font-size 24] [--color white] [--position bottom-right] image_path
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"exifstamp/internal/batch"
	"exifstamp/internal/config"
	"exifstamp/internal/fonts"
	"exifstamp/internal/logger"
	"exifstamp/internal/model"
)

func main() {
	// Context & signals: stop between files on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := config.NewFlagSet("exifstamp")
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: exifstamp [flags] image_path\n\n")
		fmt.Fprintf(stderr, "Stamp photos with their EXIF capture date. image_path is a file or a directory.\n\n")
		fs.PrintDefaults()
	}

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		fs.Usage()
		return 1
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: stderr})

	spec, err := cfg.WatermarkSpec()
	if err != nil {
		log.Error().Err(err).Msg("invalid watermark settings")
		return 1
	}

	resolver := fonts.NewResolver(fonts.DefaultCandidates(cfg.Font))
	p := batch.New(spec, resolver, batch.WithRecursive(cfg.Recursive), batch.WithLogger(log))

	report, err := p.Run(ctx, cfg.InputPath)
	if err != nil {
		if report.Total() > 0 {
			printSummary(stdout, report)
		}
		if errors.Is(err, context.Canceled) {
			log.Warn().Msg("interrupted")
		} else {
			log.Error().Err(err).Msg("batch aborted")
		}
		return 1
	}

	printSummary(stdout, report)
	return 0
}

func printSummary(w io.Writer, r model.BatchReport) {
	fmt.Fprintf(w, "\nDone.\n")
	fmt.Fprintf(w, "  processed: %d\n", r.Processed)
	fmt.Fprintf(w, "  skipped:   %d\n", r.Skipped)
	fmt.Fprintf(w, "  failed:    %d\n", r.Failed)
	fmt.Fprintf(w, "  output:    %s\n", r.OutputRoot)
}
