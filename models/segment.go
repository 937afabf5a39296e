// Package models provides core data structures for the splitter.
package models

import (
	"fmt"
	"strings"
)

// Segment is one planned slice of the source video.
//
// Segments are produced by the chunker from the probed duration and the
// configured segment length. Each segment is materialized as exactly one
// output file by a single ffmpeg invocation.
//
// StartOffset and Length use float64 so fractional source durations survive
// planning unchanged.
type Segment struct {
	Index       uint    `json:"index"`
	StartOffset float64 `json:"start_offset"`
	Length      float64 `json:"length"`
	SourcePath  string  `json:"source_path"`
}

// NewSegment creates a new Segment with validation.
//
// Example:
//
//	seg, err := models.NewSegment(1, 0, 270, "input.mp4")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewSegment(index uint, startOffset, length float64, sourcePath string) (*Segment, error) {
	s := &Segment{
		Index:       index,
		StartOffset: startOffset,
		Length:      length,
		SourcePath:  sourcePath,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segment: %w", err)
	}
	return s, nil
}

// End returns the nominal end offset of the segment in seconds.
func (s *Segment) End() float64 {
	return s.StartOffset + s.Length
}

// Validate checks if the Segment has valid data.
//
// Returns an error if:
//   - Index is zero (indices are 1-based)
//   - SourcePath is empty or whitespace-only
//   - StartOffset is negative
//   - Length is not positive
func (s *Segment) Validate() error {
	if s.Index == 0 {
		return fmt.Errorf("index must be 1-based")
	}

	if strings.TrimSpace(s.SourcePath) == "" {
		return fmt.Errorf("source_path cannot be empty")
	}

	if s.StartOffset < 0 {
		return fmt.Errorf("start_offset cannot be negative")
	}

	if s.Length <= 0 {
		return fmt.Errorf("length must be greater than 0")
	}

	return nil
}
