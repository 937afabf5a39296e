package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"splitter/command"
	"splitter/command/segment"
	"splitter/config"
	"splitter/ffprobe"
	"splitter/internal/timeutil"
	"splitter/picker"
	"splitter/picker/dialog"
	"splitter/splitter"
	"syscall"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

func main() {
	// Step 1: Load configuration (CLI flags > config file > defaults)
	cfg, err := config.LoadConfig()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Step 2: One logger per run, tagged with a run id
	logger := newLogger(cfg, os.Stdout)

	if cfg.SaveConfig != "" {
		if err := saveConfig(cfg, logger); err != nil {
			os.Exit(1)
		}
		return
	}

	if cfg.DryRun {
		cfg.PrintConfig(os.Stdout)
	}

	// Step 3: Cancel on Ctrl+C or SIGTERM; ffmpeg is killed with the context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := buildSplitter(cfg, logger, selectorFor(cfg))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Step 4: Run the pipeline
	report, err := s.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("splitting cancelled by user")
			os.Exit(130) // Standard exit code for SIGINT
		}
		os.Exit(1)
	}

	logger.Info("done", "segments", report.Succeeded(), "elapsed", timeutil.FormatDuration(report.Elapsed.Seconds()))
}

// newLogger builds the run logger, writing to w
func newLogger(cfg *config.Config, w io.Writer) hclog.Logger {
	level := hclog.Info
	if cfg.Verbose {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "splitter",
		Level:  level,
		Output: w,
	}).With("run", uuid.NewString())
}

// saveConfig writes the effective configuration for reuse with -config
func saveConfig(cfg *config.Config, logger hclog.Logger) error {
	if err := config.SaveConfigFile(cfg, cfg.SaveConfig); err != nil {
		logger.Error("cannot save configuration", "path", cfg.SaveConfig, "error", err)
		return err
	}
	logger.Info("configuration saved", "path", cfg.SaveConfig)
	return nil
}

// selectorFor picks native dialogs in interactive mode and the configured paths otherwise
func selectorFor(cfg *config.Config) picker.Selector {
	if cfg.Interactive {
		return dialog.New()
	}
	return picker.NewFixed(cfg.Input, cfg.OutputDir)
}

// buildSplitter wires the configuration into a pipeline backed by the real tools
func buildSplitter(cfg *config.Config, logger hclog.Logger, selector picker.Selector) (*splitter.Splitter, error) {
	var bitrate int64
	if cfg.VideoBitrate != "" {
		bps, err := config.ParseBitrate(cfg.VideoBitrate)
		if err != nil {
			return nil, fmt.Errorf("video_bitrate: %w", err)
		}
		bitrate = bps
	}

	runner := command.NewExecRunner()
	inspector := ffprobe.NewInspector(runner).SetBinary(cfg.Tools.FFprobe)

	opts := splitter.Options{
		SegmentLength: cfg.SegmentLength,
		Extension:     cfg.Extension,
		Mode:          segment.Mode(cfg.Mode),
		VideoBitrate:  bitrate,
		FFmpegPath:    cfg.Tools.FFmpeg,
		StrictMode:    cfg.StrictMode,
		DryRun:        cfg.DryRun,
	}

	return splitter.New(selector, inspector, runner, logger, opts), nil
}
