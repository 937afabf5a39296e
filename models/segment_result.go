package models

import (
	"fmt"
	"strings"
)

// SegmentResult represents the outcome of extracting a single segment.
//
// Successful results carry an output path and no error; failed results carry
// an error and no output path.
type SegmentResult struct {
	Index      uint   `json:"index"`
	OutputPath string `json:"output_path"`
	Success    bool   `json:"success"`
	Error      error  `json:"-"`
}

// NewSegmentResultSuccess creates a successful SegmentResult with validation.
func NewSegmentResultSuccess(index uint, outputPath string) (*SegmentResult, error) {
	r := &SegmentResult{
		Index:      index,
		OutputPath: outputPath,
		Success:    true,
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid segment result: %w", err)
	}
	return r, nil
}

// NewSegmentResultFailure creates a failed SegmentResult. The error must not be nil.
func NewSegmentResultFailure(index uint, extractErr error) (*SegmentResult, error) {
	if extractErr == nil {
		return nil, fmt.Errorf("invalid segment result: error cannot be nil for failed result")
	}
	return &SegmentResult{
		Index:   index,
		Success: false,
		Error:   extractErr,
	}, nil
}

// Validate checks that success and failure fields are consistent.
func (r *SegmentResult) Validate() error {
	if r.Success && r.Error != nil {
		return fmt.Errorf("inconsistent state: Success is true but Error is not nil")
	}

	if !r.Success && r.Error == nil {
		return fmt.Errorf("failed result must have an error")
	}

	if r.Success && strings.TrimSpace(r.OutputPath) == "" {
		return fmt.Errorf("output_path cannot be empty for successful result")
	}

	if !r.Success && strings.TrimSpace(r.OutputPath) != "" {
		return fmt.Errorf("failed result should not have output_path")
	}

	return nil
}
