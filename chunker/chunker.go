package chunker

import (
	"fmt"
	"math"
	"splitter/models"
)

const (
	// DefaultSegmentLength is the default maximum segment length in seconds (4.5 minutes)
	DefaultSegmentLength = 270.0

	// MinSegmentLength is the minimum allowed segment length in seconds
	MinSegmentLength = 1.0

	// MaxSegmentLength is the maximum allowed segment length in seconds (24 hours)
	MaxSegmentLength = 86400.0
)

// Chunker plans fixed-length segments over a source file
type Chunker struct {
	sourcePath    string
	segmentLength float64
}

// NewChunker creates a new Chunker with default settings
func NewChunker(sourcePath string) *Chunker {
	return &Chunker{
		sourcePath:    sourcePath,
		segmentLength: DefaultSegmentLength,
	}
}

// SetSegmentLength sets the maximum length of each segment in seconds
func (c *Chunker) SetSegmentLength(length float64) *Chunker {
	c.segmentLength = length
	return c
}

// SegmentLength returns the configured maximum segment length
func (c *Chunker) SegmentLength() float64 {
	return c.segmentLength
}

// CreateSegments plans segments for the provided media info.
//
// The number of segments is ceil(duration / segmentLength). Segment i (0-based)
// starts at i*segmentLength; every segment but the last is exactly
// segmentLength long and the last one covers whatever remains.
//
// Example:
//
//	probe, _ := inspector.Inspect(ctx, "input.mp4")
//	segments, err := chunker.NewChunker("input.mp4").CreateSegments(probe)
func (c *Chunker) CreateSegments(mediaInfo MediaInfo) ([]*models.Segment, error) {
	if c.sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	if c.segmentLength < MinSegmentLength {
		return nil, fmt.Errorf("segment length must be at least %.0f seconds", MinSegmentLength)
	}

	if c.segmentLength > MaxSegmentLength {
		return nil, fmt.Errorf("segment length cannot exceed %.0f seconds", MaxSegmentLength)
	}

	if mediaInfo == nil {
		return nil, fmt.Errorf("media info cannot be nil")
	}

	duration, err := mediaInfo.GetDuration()
	if err != nil {
		return nil, fmt.Errorf("failed to get duration: %w", err)
	}

	return c.createFixedLengthSegments(duration)
}

// SegmentCount returns ceil(duration / length), with a floor of one segment
func SegmentCount(duration, length float64) int {
	count := int(math.Ceil(duration / length))
	if count < 1 {
		count = 1
	}
	return count
}

// createFixedLengthSegments creates segments of fixed length
func (c *Chunker) createFixedLengthSegments(duration float64) ([]*models.Segment, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("invalid duration: %.2f seconds", duration)
	}

	count := SegmentCount(duration, c.segmentLength)
	segments := make([]*models.Segment, 0, count)

	for i := 0; i < count; i++ {
		start := float64(i) * c.segmentLength
		length := c.segmentLength

		// Last segment ends at the actual duration
		if start+length > duration {
			length = duration - start
		}

		segment, err := models.NewSegment(uint(i+1), start, length, c.sourcePath)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}

		segments = append(segments, segment)
	}

	return segments, nil
}

// ValidateSegments validates a planned sequence for completeness and correctness
func ValidateSegments(segments []*models.Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("segment list is empty")
	}

	for i, segment := range segments {
		if err := segment.Validate(); err != nil {
			return fmt.Errorf("segment %d is invalid: %w", i+1, err)
		}
	}

	if segments[0].StartOffset != 0 {
		return fmt.Errorf("first segment starts at %.2f, expected 0", segments[0].StartOffset)
	}

	firstSource := segments[0].SourcePath
	for i, segment := range segments {
		if segment.SourcePath != firstSource {
			return fmt.Errorf("segment %d has different source path: expected %s, got %s",
				i+1, firstSource, segment.SourcePath)
		}

		expectedIndex := uint(i + 1)
		if segment.Index != expectedIndex {
			return fmt.Errorf("segment %d has incorrect index: expected %d, got %d",
				i+1, expectedIndex, segment.Index)
		}
	}

	// Segments must be contiguous: each one starts where the previous ended
	const epsilon = 1e-6
	for i := 0; i < len(segments)-1; i++ {
		currentEnd := segments[i].End()
		nextStart := segments[i+1].StartOffset

		if currentEnd-nextStart > epsilon {
			return fmt.Errorf("segments %d and %d overlap: segment %d ends at %.2f, segment %d starts at %.2f",
				i+1, i+2, i+1, currentEnd, i+2, nextStart)
		}

		if nextStart-currentEnd > epsilon {
			return fmt.Errorf("gap between segments %d and %d: segment %d ends at %.2f, segment %d starts at %.2f",
				i+1, i+2, i+1, currentEnd, i+2, nextStart)
		}
	}

	return nil
}
