package segment

import (
	"context"
	"fmt"
	"io"
	"math"
	"splitter/command"
	"splitter/ffmpeg"
	"splitter/internal/timeutil"
	"splitter/models"
	"strconv"
)

// Mode selects how streams are written into each segment.
type Mode string

const (
	// ModeCopy passes the streams through untouched. Cuts land on keyframes,
	// so the actual start of a segment may drift from the requested offset.
	ModeCopy Mode = "copy"

	// ModeReencode re-encodes video at an explicit bitrate so cuts are exact.
	ModeReencode Mode = "reencode"
)

// IsValid reports whether m is a known extraction mode.
func (m Mode) IsValid() bool {
	return m == ModeCopy || m == ModeReencode
}

// SegmentBuilder builds and runs the ffmpeg command that extracts one segment.
type SegmentBuilder struct {
	runner     command.Runner
	binary     string
	segment    *models.Segment
	outputPath string
	nominal    float64 // requested -t, may run past the end of the source

	mode         Mode
	videoBitrate int64 // bits per second, required by ModeReencode
	videoCodec   string
	audioCodec   string

	progressCallback models.ProgressCallback
}

// NewSegmentBuilder creates a builder that writes segment to outputPath.
func NewSegmentBuilder(runner command.Runner, segment *models.Segment, outputPath string) *SegmentBuilder {
	return &SegmentBuilder{
		runner:     runner,
		binary:     "ffmpeg",
		segment:    segment,
		outputPath: outputPath,
		mode:       ModeCopy,
		videoCodec: "libx264",
		audioCodec: "aac",
	}
}

// SetBinary overrides the ffmpeg executable.
func (s *SegmentBuilder) SetBinary(binary string) *SegmentBuilder {
	s.binary = binary
	return s
}

// SetMode sets the extraction mode.
func (s *SegmentBuilder) SetMode(mode Mode) *SegmentBuilder {
	s.mode = mode
	return s
}

// SetVideoBitrate sets the target video bitrate in bits per second.
func (s *SegmentBuilder) SetVideoBitrate(bps int64) *SegmentBuilder {
	s.videoBitrate = bps
	return s
}

// SetNominalLength sets the duration requested from ffmpeg. The final segment
// of a plan is shorter than this; ffmpeg stops at the end of the source.
func (s *SegmentBuilder) SetNominalLength(seconds float64) *SegmentBuilder {
	s.nominal = seconds
	return s
}

// SetProgressCallback sets the callback invoked for every progress report
// ffmpeg writes while the segment is extracted, and once more on failure.
func (s *SegmentBuilder) SetProgressCallback(callback models.ProgressCallback) *SegmentBuilder {
	s.progressCallback = callback
	return s
}

// Validate checks that the builder can produce a runnable command.
func (s *SegmentBuilder) Validate() error {
	if s.segment == nil {
		return fmt.Errorf("segment is nil")
	}
	if err := s.segment.Validate(); err != nil {
		return err
	}
	if s.outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	if !s.mode.IsValid() {
		return fmt.Errorf("unknown extraction mode %q", s.mode)
	}
	if s.mode == ModeReencode && s.videoBitrate <= 0 {
		return fmt.Errorf("reencode mode requires a video bitrate")
	}
	return nil
}

// BuildArgs constructs the ffmpeg arguments for this segment.
//
// The seek goes before -i so ffmpeg jumps straight to the nearest keyframe
// instead of decoding from the start of the file. -n refuses to overwrite an
// existing destination. With -v error, stderr carries only the failure text.
func (s *SegmentBuilder) BuildArgs() []string {
	args := []string{
		"-v", "error",
		"-nostdin",
		"-n",
		"-ss", timeutil.FormatSeconds(s.segment.StartOffset),
		"-i", s.segment.SourcePath,
		"-t", timeutil.FormatSeconds(s.requestedLength()),
	}

	switch s.mode {
	case ModeReencode:
		args = append(args,
			"-map", "0:v:0",
			"-map", "0:a?",
			"-c:v", s.videoCodec,
			"-b:v", strconv.FormatInt(s.videoBitrate, 10),
			"-c:a", s.audioCodec,
		)
	default:
		args = append(args,
			"-c", "copy",
			"-avoid_negative_ts", "make_zero",
		)
	}

	args = append(args,
		"-progress", "pipe:1",
		"-nostats",
		s.outputPath,
	)

	return args
}

// Run executes the extraction and blocks until ffmpeg exits.
func (s *SegmentBuilder) Run(ctx context.Context) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("cannot build command: %w", err)
	}

	progress := models.NewEncodingProgress(s.segment.Index, s.segment.Length)
	progress.State = models.ProgressStateRunning

	if err := s.execute(ctx, progress); err != nil {
		if s.progressCallback != nil {
			progress.State = models.ProgressStateFailed
			s.progressCallback(progress)
		}
		return fmt.Errorf("segment %d extraction failed: %w", s.segment.Index, err)
	}

	return nil
}

// execute runs ffmpeg, feeding its -progress output to the callback as it
// arrives when the runner can stream, or once after exit when it cannot.
func (s *SegmentBuilder) execute(ctx context.Context, progress *models.EncodingProgress) error {
	parser := ffmpeg.NewProgressParser()

	streamer, canStream := s.runner.(command.StreamRunner)
	if s.progressCallback == nil || !canStream {
		result, err := s.runner.Run(ctx, s.binary, s.BuildArgs()...)
		if err != nil {
			return err
		}
		// A missing report is not an extraction failure
		if s.progressCallback != nil && parser.ParseOutput(result.Stdout, progress) == nil {
			progress.State = models.ProgressStateCompleted
			s.progressCallback(progress)
		}
		return nil
	}

	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = parser.StreamProgress(pr, progress, s.progressCallback)
		// keep ffmpeg from blocking if the parser stopped early
		_, _ = io.Copy(io.Discard, pr)
	}()

	_, err := streamer.RunStream(ctx, pw, s.binary, s.BuildArgs()...)
	pw.Close()
	<-done
	return err
}

// requestedLength is the -t value: the nominal length when set, otherwise
// the segment length rounded up to the centisecond so short tails survive
// formatting.
func (s *SegmentBuilder) requestedLength() float64 {
	length := math.Ceil(s.segment.Length*100) / 100
	if s.nominal > length {
		return s.nominal
	}
	return length
}

// DryRun returns the command line without executing it.
func (s *SegmentBuilder) DryRun() (string, error) {
	if err := s.Validate(); err != nil {
		return "", fmt.Errorf("cannot build command: %w", err)
	}
	return command.CommandLine(s.binary, s.BuildArgs()), nil
}

// GetTaskType returns the task type (segment).
func (s *SegmentBuilder) GetTaskType() command.TaskType {
	return command.TaskTypeSegment
}

// GetInputPath returns the source file path.
func (s *SegmentBuilder) GetInputPath() string {
	if s.segment == nil {
		return ""
	}
	return s.segment.SourcePath
}

// GetOutputPath returns the segment output path.
func (s *SegmentBuilder) GetOutputPath() string {
	return s.outputPath
}

var _ command.Command = (*SegmentBuilder)(nil)
