package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// MergeFromFlags parses command-line flags and overrides config values
func (c *Config) MergeFromFlags(args []string) error {
	fs := flag.NewFlagSet("splitter", flag.ContinueOnError)
	fs.Usage = printUsage

	// Paths
	input := fs.String("input", "", "Source video file (default: input.mp4)")
	output := fs.String("output", "", "Output directory for segments (default: output)")
	interactive := fs.Bool("interactive", false, "Choose source and output with file dialogs")

	// Config file override (handled by LoadConfigArgs before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")
	saveConfig := fs.String("save-config", "", "Write the effective configuration to this YAML file and exit")

	// Segmenting
	segmentLength := fs.Float64("segment-length", -1, "Maximum segment length in seconds (default: from config)")
	extension := fs.String("extension", "", "Output container extension (default: from config)")
	mode := fs.String("mode", "", "Extraction mode: copy, reencode (default: from config)")
	copyMode := fs.Bool("copy", false, "Stream-copy segments without re-encoding")
	reencode := fs.Bool("reencode", false, "Re-encode segments at the probed bitrate")
	videoBitrate := fs.String("video-bitrate", "", "Video bitrate for reencode mode, e.g. 4500k, 5M (default: probed)")

	// Tools
	ffmpegPath := fs.String("ffmpeg", "", "ffmpeg executable (default: from config)")
	ffprobePath := fs.String("ffprobe", "", "ffprobe executable (default: from config)")

	// Behavioral flags
	strict := fs.Bool("strict", false, "Abort on the first failed segment")
	noStrict := fs.Bool("no-strict", false, "Log failed segments and continue")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	dryRun := fs.Bool("dry-run", false, "Probe and plan without writing segments")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if *input != "" {
		c.Input = *input
	}
	if *output != "" {
		c.OutputDir = *output
	}
	if *interactive {
		c.Interactive = true
	}

	if *segmentLength >= 0 {
		c.SegmentLength = *segmentLength
	}
	if *extension != "" {
		c.Extension = strings.TrimPrefix(*extension, ".")
	}

	// Mode shortcuts win over -mode
	if *copyMode && *reencode {
		return fmt.Errorf("-copy and -reencode are mutually exclusive")
	} else if *copyMode {
		c.Mode = ModeCopy
	} else if *reencode {
		c.Mode = ModeReencode
	} else if *mode != "" {
		c.Mode = *mode
	}
	if *videoBitrate != "" {
		c.VideoBitrate = *videoBitrate
	}

	if *ffmpegPath != "" {
		c.Tools.FFmpeg = *ffmpegPath
	}
	if *ffprobePath != "" {
		c.Tools.FFprobe = *ffprobePath
	}

	if *strict {
		c.StrictMode = true
	}
	if *noStrict {
		c.StrictMode = false
	}
	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}
	if *saveConfig != "" {
		c.SaveConfig = *saveConfig
	}

	return nil
}

// printUsage prints help text
func printUsage() {
	fmt.Fprintf(os.Stderr, `splitter - Split a video into fixed-length segments with ffmpeg

USAGE:
  splitter [OPTIONS]

  With no options, splits ./input.mp4 into ./output/segment_<n>.mp4
  in 270 second pieces.

PATHS:
  -input string
        Source video file (default: input.mp4)
  -output string
        Output directory for segments (default: output)
  -interactive
        Choose source file and output directory with native dialogs

CONFIGURATION:
  -config string
        Path to config file (default: search ./splitter.yaml, ~/.splitter/config.yaml, /etc/splitter/config.yaml)
  -save-config string
        Write the effective configuration to a YAML file and exit

SEGMENTING:
  -segment-length float
        Maximum segment length in seconds (default: 270)
  -extension string
        Output container extension (default: mp4)
  -mode string
        Extraction mode: copy, reencode (default: copy)
  --copy
        Stream-copy: lossless and fast, cuts snap to keyframes
  --reencode
        Re-encode video at the probed bitrate: exact cuts, slower, lossy
  -video-bitrate string
        Bitrate for --reencode, e.g. 4500k, 5M (default: probed from source)

TOOLS:
  -ffmpeg string
        ffmpeg executable (default: ffmpeg)
  -ffprobe string
        ffprobe executable (default: ffprobe)

BEHAVIORAL FLAGS:
  --strict
        Abort the run on the first failed segment (default: true)
  --no-strict
        Log failed segments, continue, and exit non-zero at the end
  --verbose
        Enable debug logging
  --dry-run
        Probe and plan, print ffmpeg commands, write nothing

EXAMPLES:
  # Split ./input.mp4 into ./output
  splitter

  # Pick files with dialogs
  splitter --interactive

  # Ten minute segments, exact cuts
  splitter -input movie.mkv -output parts -segment-length 600 --reencode -extension mkv

  # Show what would run
  splitter -input movie.mp4 --dry-run

  # Start a config file from the current flags
  splitter -segment-length 600 --reencode -save-config ./splitter.yaml

CONFIGURATION FILES:
  Config files are searched in order:
    1. ./splitter.yaml
    2. ~/.splitter/config.yaml
    3. /etc/splitter/config.yaml

  Priority: CLI flags > Config file > Defaults

`)
}

// PrintConfig writes the effective configuration
func (c *Config) PrintConfig(w io.Writer) {
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "                 Effective Configuration                  ")
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	if c.Interactive {
		fmt.Fprintln(w, "Paths:          chosen interactively")
	} else {
		fmt.Fprintf(w, "Input:          %s\n", c.Input)
		fmt.Fprintf(w, "Output Dir:     %s\n", c.OutputDir)
	}
	fmt.Fprintf(w, "Segment Length: %g seconds\n", c.SegmentLength)
	fmt.Fprintf(w, "Extension:      %s\n", c.Extension)
	fmt.Fprintf(w, "Mode:           %s\n", c.Mode)
	if c.VideoBitrate != "" {
		fmt.Fprintf(w, "Video Bitrate:  %s\n", c.VideoBitrate)
	}

	fmt.Fprintln(w, "\nTools:")
	fmt.Fprintf(w, "  ffmpeg:       %s\n", c.Tools.FFmpeg)
	fmt.Fprintf(w, "  ffprobe:      %s\n", c.Tools.FFprobe)

	fmt.Fprintln(w, "\nBehavioral Flags:")
	fmt.Fprintf(w, "  Strict Mode:  %v\n", c.StrictMode)
	fmt.Fprintf(w, "  Verbose:      %v\n", c.Verbose)
	fmt.Fprintf(w, "  Dry Run:      %v\n", c.DryRun)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}
