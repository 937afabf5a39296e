// Package command provides the Command interface implemented by ffmpeg
// builders and the Runner used to execute external media tools.
//
// Every external invocation in the splitter goes through a Runner, so tests
// substitute a fake runner and never need ffmpeg or ffprobe installed.
package command

import "context"

// TaskType represents the kind of external invocation.
type TaskType string

// TaskTypeSegment is a segment extraction (ffmpeg).
const TaskTypeSegment TaskType = "segment"

// Command represents an external tool command that can be built, executed, or previewed.
//
// Example usage:
//
//	seg := &models.Segment{Index: 1, StartOffset: 0, Length: 270, SourcePath: "input.mp4"}
//	cmd := segment.NewSegmentBuilder(runner, seg, "output/segment_1.mp4").
//		SetMode(segment.ModeCopy)
//
//	// Preview the command
//	line, _ := cmd.DryRun()
//
//	// Execute the command
//	err := cmd.Run(ctx)
type Command interface {
	// BuildArgs constructs and returns the tool arguments as a slice.
	// The returned slice is suitable for Runner.Run(ctx, binary, args...).
	BuildArgs() []string

	// Run executes the command and blocks until it completes.
	//
	// Returns an *ExitError if the tool cannot be started or exits non-zero.
	Run(ctx context.Context) error

	// DryRun returns the command line as a string without executing it.
	DryRun() (string, error)

	// GetTaskType returns the type of task.
	GetTaskType() TaskType

	// GetInputPath returns the primary input file path for this command.
	GetInputPath() string

	// GetOutputPath returns the output file path for this command.
	GetOutputPath() string
}
