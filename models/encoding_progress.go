package models

import (
	"fmt"
	"time"
)

// EncodingProgress represents ffmpeg progress metrics for one segment
type EncodingProgress struct {
	SegmentIndex uint

	// Current position in the segment
	Frame       int64   // Current frame number
	FPS         float64 // Frames per second being processed
	CurrentTime string  // Current timestamp (HH:MM:SS.MS)

	// Performance metrics
	Bitrate string  // Current bitrate (e.g., "128.0kbits/s")
	Speed   float64 // Processing speed multiplier (e.g., 85.3 for stream copy)

	// Bytes written so far
	TotalSize int64

	// Progress calculation
	TotalDuration float64 // Segment length in seconds (for percentage calculation)
	Progress      float64 // Percentage complete (0-100)

	// Metadata
	State     ProgressState
	StartTime time.Time
	UpdatedAt time.Time
}

// ProgressState represents the current state of an extraction
type ProgressState string

const (
	ProgressStateQueued    ProgressState = "queued"
	ProgressStateRunning   ProgressState = "running"
	ProgressStateCompleted ProgressState = "completed"
	ProgressStateFailed    ProgressState = "failed"
)

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(progress *EncodingProgress)

// NewEncodingProgress creates a new progress tracker for a segment
func NewEncodingProgress(segmentIndex uint, totalDuration float64) *EncodingProgress {
	now := time.Now()
	return &EncodingProgress{
		SegmentIndex:  segmentIndex,
		TotalDuration: totalDuration,
		State:         ProgressStateQueued,
		StartTime:     now,
		UpdatedAt:     now,
	}
}

// CalculateProgress updates the progress percentage based on current time
func (ep *EncodingProgress) CalculateProgress(currentSeconds float64) {
	if ep.TotalDuration > 0 {
		ep.Progress = (currentSeconds / ep.TotalDuration) * 100
		if ep.Progress > 100 {
			ep.Progress = 100
		}
	}
	ep.UpdatedAt = time.Now()
}

// FormatSummary returns a human-readable summary of the progress
func (ep *EncodingProgress) FormatSummary() string {
	return fmt.Sprintf(
		"segment %d: %.1f%% | speed %.2fx | %s written",
		ep.SegmentIndex,
		ep.Progress,
		ep.Speed,
		formatBytes(ep.TotalSize),
	)
}

// formatBytes converts a byte count to a human-readable string
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
