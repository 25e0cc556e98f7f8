// Package batch drives the stamping pipeline over a file or a directory.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"exifstamp/internal/fonts"
	"exifstamp/internal/logger"
	"exifstamp/internal/metadata"
	"exifstamp/internal/model"
	"exifstamp/internal/processor"
	"exifstamp/internal/storage/file"
)

var (
	// ErrInputNotFound is returned when the input path does not exist.
	ErrInputNotFound = errors.New("input path does not exist")

	// ErrNoImages is returned when a directory holds no supported image.
	ErrNoImages = errors.New("no supported image files found")
)

// fontResolver picks the face used for every task of a batch.
type fontResolver interface {
	Resolve(size int) fonts.Handle
}

// Processor runs batches. A batch processes its tasks one after another;
// a failing task is recorded and never stops the batch.
type Processor struct {
	spec      model.WatermarkSpec
	fonts     fontResolver
	log       logger.Logger
	recursive bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithRecursive makes directory batches include subdirectories.
func WithRecursive(recursive bool) Option {
	return func(p *Processor) { p.recursive = recursive }
}

// WithLogger sets the logger used for per-file events.
func WithLogger(log logger.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// New creates a Processor that stamps with spec, drawing with a face from r.
func New(spec model.WatermarkSpec, r fontResolver, opts ...Option) *Processor {
	p := &Processor{spec: spec, fonts: r, log: logger.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run stamps every image found at input and writes the results under the
// derived output directory. Per-file problems end up in the report; the
// returned error is reserved for conditions that prevent the batch from
// running at all, and for cancellation of ctx between files.
func (p *Processor) Run(ctx context.Context, input string) (model.BatchReport, error) {
	var report model.BatchReport

	fi, err := os.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, fmt.Errorf("%w: %s", ErrInputNotFound, input)
		}
		return report, fmt.Errorf("stat input: %w", err)
	}

	root := file.OutputRoot(input, fi.IsDir())
	report.OutputRoot = root

	var tasks []model.ImageTask
	if fi.IsDir() {
		tasks, err = Discover(input, p.recursive, root)
		if err != nil {
			return report, fmt.Errorf("list %s: %w", input, err)
		}
	} else {
		tasks = []model.ImageTask{{SourcePath: input, RelPath: filepath.Base(input)}}
	}
	if len(tasks) == 0 {
		return report, fmt.Errorf("%w in %s", ErrNoImages, input)
	}
	p.log.Info().Int("files", len(tasks)).Str("output", root).Msg("found images")

	storage := file.NewStorage(root)
	if err := storage.Prepare(); err != nil {
		return report, err
	}

	handle := p.fonts.Resolve(p.spec.FontSize)
	ev := p.log.Debug()
	if !handle.Scalable {
		ev = p.log.Warn().Int("requested_size", p.spec.FontSize)
	}
	ev.Str("font", handle.Name).Strs("unavailable", handle.Tried).Bool("scalable", handle.Scalable).Msg("font resolved")

	stamper := processor.New(handle.Face, p.spec)

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := p.process(task, stamper, storage)
		p.logResult(res)
		report.Add(res)
	}

	return report, nil
}

// process moves one task through decode, metadata, render and save.
// Panics from decoders are turned into a failed result.
func (p *Processor) process(task model.ImageTask, stamper *processor.Processor, storage *file.Storage) (res model.Result) {
	res.Task = task
	defer func() {
		if r := recover(); r != nil {
			res.Outcome = model.OutcomeFailed
			res.OutputPath = ""
			res.Err = fmt.Errorf("panic while processing: %v", r)
		}
	}()

	fail := func(err error) model.Result {
		res.Outcome = model.OutcomeFailed
		res.Err = err
		return res
	}

	data, err := file.Load(task.SourcePath)
	if err != nil {
		return fail(err)
	}

	img, err := processor.Decode(data)
	if err != nil {
		return fail(err)
	}

	date, ok := metadata.Extract(data)
	if !ok {
		res.Outcome = model.OutcomeSkipped
		return res
	}
	res.Date = date

	out := stamper.Watermark(img, date)

	path, err := storage.Save(task.RelPath, out)
	if err != nil {
		return fail(err)
	}

	res.Outcome = model.OutcomeProcessed
	res.OutputPath = path
	return res
}

func (p *Processor) logResult(res model.Result) {
	switch res.Outcome {
	case model.OutcomeProcessed:
		p.log.Info().
			Str("file", res.Task.RelPath).
			Str("date", res.Date.Format()).
			Str("field", res.Date.Field).
			Str("output", res.OutputPath).
			Msg("stamped")
	case model.OutcomeSkipped:
		p.log.Info().Str("file", res.Task.RelPath).Msg("skipped: no capture date in EXIF")
	case model.OutcomeFailed:
		p.log.Error().Err(res.Err).Str("file", res.Task.RelPath).Msg("failed")
	}
}
