// Package ffprobe extracts the metadata the splitter needs from a media file
// using the ffprobe command-line tool.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"splitter/command"
	"splitter/models"
	"strconv"
	"strings"
)

// ErrProbe marks every inspection failure.
var ErrProbe = errors.New("media probe failed")

// Stream represents a media stream (audio, video, subtitle, etc.)
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	BitRate   string `json:"bit_rate,omitempty"`
}

// Format represents the container format information.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	BitRate    string `json:"bit_rate"`
}

// ProbeResult is the raw JSON document ffprobe prints for ProbeArgs.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// FirstStream returns the first stream of codecType, if any.
func (pr *ProbeResult) FirstStream(codecType string) (Stream, bool) {
	for _, s := range pr.Streams {
		if s.CodecType == codecType {
			return s, true
		}
	}
	return Stream{}, false
}

// Inspector queries a source file with ffprobe.
type Inspector struct {
	runner command.Runner
	binary string
}

// NewInspector creates an Inspector that runs ffprobe through runner.
func NewInspector(runner command.Runner) *Inspector {
	return &Inspector{runner: runner, binary: "ffprobe"}
}

// SetBinary overrides the ffprobe executable.
func (i *Inspector) SetBinary(binary string) *Inspector {
	i.binary = binary
	return i
}

// ProbeArgs builds the single query for every stream and the container.
//
// -v error: only failures reach stderr
// -print_format json: machine-readable output
// -show_streams / -show_format: codec, size, bitrate and duration
func ProbeArgs(sourcePath string) []string {
	return []string{
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		sourcePath,
	}
}

// Inspect probes sourcePath once and returns a snapshot of its metadata.
//
// Example:
//
//	probe, err := ffprobe.NewInspector(command.NewExecRunner()).Inspect(ctx, "input.mp4")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Duration: %.2f seconds\n", probe.Duration)
func (i *Inspector) Inspect(ctx context.Context, sourcePath string) (models.MediaProbe, error) {
	if sourcePath == "" {
		return models.MediaProbe{}, fmt.Errorf("%w: source path cannot be empty", ErrProbe)
	}

	out, err := i.runner.Run(ctx, i.binary, ProbeArgs(sourcePath)...)
	if err != nil {
		return models.MediaProbe{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}

	probe, err := ParseOutput(out.Stdout)
	if err != nil {
		return models.MediaProbe{}, fmt.Errorf("%w: %w", ErrProbe, err)
	}
	return probe, nil
}

// ParseOutput converts the JSON printed for ProbeArgs into a MediaProbe.
//
// The first video stream supplies the resolution and the first audio stream
// the codec. The video stream bitrate is preferred; the container bitrate is
// the fallback. Missing or "N/A" bitrates leave Bitrate at zero.
func ParseOutput(output []byte) (models.MediaProbe, error) {
	var probe models.MediaProbe

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return probe, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}

	duration, err := parseDuration(result.Format.Duration)
	if err != nil {
		return probe, err
	}
	probe.Duration = duration

	video, ok := result.FirstStream("video")
	if !ok {
		return probe, fmt.Errorf("no video stream found")
	}
	if video.Width <= 0 || video.Height <= 0 {
		return probe, fmt.Errorf("video resolution not available in stream metadata")
	}
	probe.Width = video.Width
	probe.Height = video.Height

	probe.Bitrate = parseBitrate(video.BitRate)
	if probe.Bitrate == 0 {
		probe.Bitrate = parseBitrate(result.Format.BitRate)
	}

	if audio, ok := result.FirstStream("audio"); ok {
		probe.AudioCodec = strings.TrimSpace(audio.CodecName)
	}

	return probe, nil
}

func parseDuration(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", raw, err)
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("invalid duration: %s", raw)
	}
	return duration, nil
}

func parseBitrate(raw string) int64 {
	if raw == "" || raw == "N/A" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
