// Package splitter runs the split pipeline: resolve paths, probe the source
// once, plan fixed-length segments and extract them one after another.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"splitter/chunker"
	"splitter/command"
	"splitter/command/segment"
	"splitter/ffprobe"
	"splitter/internal/timeutil"
	"splitter/models"
	"splitter/output"
	"splitter/picker"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	// ErrMissingInput means the source file does not exist.
	ErrMissingInput = errors.New("input file not found")

	// ErrExtraction means at least one segment could not be written.
	ErrExtraction = errors.New("segment extraction failed")

	// ErrNoBitrate means reencode mode has no bitrate to encode at.
	ErrNoBitrate = errors.New("no video bitrate available for reencode mode")
)

// Inspector produces the metadata snapshot a run is planned from.
type Inspector interface {
	Inspect(ctx context.Context, sourcePath string) (models.MediaProbe, error)
}

// Options controls a single run.
type Options struct {
	SegmentLength float64
	Extension     string
	Mode          segment.Mode
	VideoBitrate  int64  // overrides the probed bitrate when > 0
	FFmpegPath    string // defaults to "ffmpeg"

	// StrictMode aborts on the first failed segment. Otherwise failures are
	// logged, remaining segments still run and the run fails at the end.
	StrictMode bool

	// DryRun probes and plans but never invokes ffmpeg.
	DryRun bool
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return Options{
		SegmentLength: chunker.DefaultSegmentLength,
		Extension:     "mp4",
		Mode:          segment.ModeCopy,
		FFmpegPath:    "ffmpeg",
		StrictMode:    true,
	}
}

// Splitter wires the collaborators of a run together.
type Splitter struct {
	selector  picker.Selector
	inspector Inspector
	runner    command.Runner
	logger    hclog.Logger
	opts      Options
}

// New creates a Splitter. A nil logger discards all output.
func New(selector picker.Selector, inspector Inspector, runner command.Runner, logger hclog.Logger, opts Options) *Splitter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	return &Splitter{
		selector:  selector,
		inspector: inspector,
		runner:    runner,
		logger:    logger,
		opts:      opts,
	}
}

// Run executes the whole pipeline. The returned Report is non-nil once the
// source and output directory have been resolved, even when err is set.
func (s *Splitter) Run(ctx context.Context) (*Report, error) {
	started := time.Now()

	source, outputDir, err := s.resolvePaths()
	if err != nil {
		return nil, err
	}

	report := &Report{Source: source, OutputDir: outputDir}
	defer func() { report.Elapsed = time.Since(started) }()

	if err := checkInput(source); err != nil {
		s.logger.Error("input file not found", "input", source, "error", err)
		return report, err
	}

	probe, err := s.inspector.Inspect(ctx, source)
	if err != nil {
		s.logToolError("failed to inspect input", err, "input", source)
		return report, err
	}
	report.Probe = probe

	segments, err := chunker.NewChunker(source).
		SetSegmentLength(s.opts.SegmentLength).
		CreateSegments(probe)
	if err != nil {
		s.logger.Error("failed to plan segments", "error", err)
		return report, fmt.Errorf("%w: %w", ffprobe.ErrProbe, err)
	}
	if err := s.checkPlan(segments); err != nil {
		return report, err
	}
	report.Segments = segments

	s.logger.Info("planned segments",
		"duration_seconds", probe.Duration,
		"segments", len(segments),
		"segment_length", timeutil.FormatDuration(s.opts.SegmentLength),
		"mode", string(s.opts.Mode))
	s.logger.Info("video properties",
		"resolution", probe.Resolution(),
		"audio_codec", displayOr(probe.AudioCodec, "none"),
		"bitrate_bps", displayOr(probe.BitrateString(), "unknown"))

	bitrate, err := s.encodeBitrate(probe)
	if err != nil {
		s.logger.Error("cannot re-encode", "error", err)
		return report, err
	}

	if !s.opts.DryRun {
		if err := output.EnsureDir(outputDir); err != nil {
			s.logger.Error("cannot prepare output directory", "output_dir", outputDir, "error", err)
			return report, err
		}
	}

	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := s.extract(ctx, seg, outputDir, bitrate, len(segments))
		report.Results = append(report.Results, result)
		if err == nil {
			continue
		}

		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if s.opts.StrictMode {
			return report, fmt.Errorf("%w: %w", ErrExtraction, err)
		}
	}

	if failed := report.Failed(); failed > 0 {
		s.logger.Error("video splitting finished with failures",
			"failed", failed, "succeeded", report.Succeeded(), "total", len(segments))
		return report, fmt.Errorf("%w: %d of %d segments failed", ErrExtraction, failed, len(segments))
	}

	if s.opts.DryRun {
		s.logger.Info("dry run complete, no segments written")
	} else {
		s.logger.Info("video splitting completed successfully", "segments", report.Succeeded())
	}
	return report, nil
}

// checkPlan rejects a plan that does not tile the source contiguously
func (s *Splitter) checkPlan(segments []*models.Segment) error {
	if err := chunker.ValidateSegments(segments); err != nil {
		s.logger.Error("segment plan invalid", "error", err)
		return fmt.Errorf("segment plan invalid: %w", err)
	}
	return nil
}

// resolvePaths asks the selector for the source and the output directory
func (s *Splitter) resolvePaths() (string, string, error) {
	source, err := s.selector.ChooseSource()
	if err != nil {
		s.logger.Error("no input file selected, exiting", "error", err)
		return "", "", fmt.Errorf("resolve source: %w", err)
	}

	outputDir, err := s.selector.ChooseOutputDir()
	if err != nil {
		s.logger.Error("no output directory selected, exiting", "error", err)
		return "", "", fmt.Errorf("resolve output directory: %w", err)
	}

	return source, outputDir, nil
}

// encodeBitrate returns the bitrate passed to the encoder in reencode mode
func (s *Splitter) encodeBitrate(probe models.MediaProbe) (int64, error) {
	if s.opts.Mode != segment.ModeReencode {
		return 0, nil
	}
	if s.opts.VideoBitrate > 0 {
		return s.opts.VideoBitrate, nil
	}
	if probe.HasBitrate() {
		return probe.Bitrate, nil
	}
	return 0, fmt.Errorf("%w: source reports none, set video_bitrate", ErrNoBitrate)
}

// extract writes one segment and records its outcome
func (s *Splitter) extract(ctx context.Context, seg *models.Segment, outputDir string, bitrate int64, total int) (*models.SegmentResult, error) {
	log := s.logger.With("segment", seg.Index, "total", total)

	outPath, err := output.UniqueSegmentPath(outputDir, seg.Index, s.opts.Extension)
	if err != nil {
		log.Error("cannot choose output name", "error", err)
		result, _ := models.NewSegmentResultFailure(seg.Index, err)
		return result, err
	}

	var cmd command.Command = segment.NewSegmentBuilder(s.runner, seg, outPath).
		SetBinary(s.opts.FFmpegPath).
		SetMode(s.opts.Mode).
		SetVideoBitrate(bitrate).
		SetNominalLength(s.opts.SegmentLength).
		SetProgressCallback(func(p *models.EncodingProgress) {
			log.Debug("progress", "state", string(p.State), "summary", p.FormatSummary())
		})

	log = log.With("task", string(cmd.GetTaskType()))
	log.Info("processing segment",
		"start", timeutil.FormatSeconds(seg.StartOffset),
		"length", timeutil.FormatSeconds(seg.Length))

	if s.opts.DryRun {
		line, err := cmd.DryRun()
		if err != nil {
			result, _ := models.NewSegmentResultFailure(seg.Index, err)
			return result, err
		}
		log.Info("dry run", "command", line)
		return models.NewSegmentResultSuccess(seg.Index, cmd.GetOutputPath())
	}

	if err := cmd.Run(ctx); err != nil {
		s.logToolError("error creating segment", err, "segment", seg.Index, "input", cmd.GetInputPath())
		result, _ := models.NewSegmentResultFailure(seg.Index, err)
		return result, err
	}

	log.Info("segment saved", "output", cmd.GetOutputPath())
	return models.NewSegmentResultSuccess(seg.Index, cmd.GetOutputPath())
}

// logToolError logs a failed external invocation with its captured stderr,
// or a hint when the tool itself could not be found.
func (s *Splitter) logToolError(msg string, err error, args ...interface{}) {
	args = append(args, "error", err)

	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.NotFound() {
			args = append(args, "hint", exitErr.Name+" not found on PATH")
		} else {
			args = append(args, "stderr", exitErr.Stderr)
		}
	}

	s.logger.Error(msg, args...)
}

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return fmt.Errorf("%w: %w", ErrMissingInput, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrMissingInput, path)
	}
	return nil
}

func displayOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
