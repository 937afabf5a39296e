package config

import (
	"fmt"
	"strings"
)

const (
	minSegmentLength = 1.0
	maxSegmentLength = 86400.0
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	// Paths come from dialogs in interactive mode
	if !c.Interactive {
		if c.Input == "" {
			errors = append(errors, "input file is required")
		}
		if c.OutputDir == "" {
			errors = append(errors, "output directory is required")
		}
	}

	if c.SegmentLength < minSegmentLength || c.SegmentLength > maxSegmentLength {
		errors = append(errors, fmt.Sprintf("segment length must be between %.0f and %.0f seconds",
			minSegmentLength, maxSegmentLength))
	}

	if err := validateExtension(c.Extension); err != nil {
		errors = append(errors, err.Error())
	}

	if !IsValidMode(c.Mode) {
		errors = append(errors, fmt.Sprintf("invalid mode '%s', must be one of: %s",
			c.Mode, strings.Join(ModeValues(), ", ")))
	}

	if _, err := ParseBitrate(c.VideoBitrate); err != nil {
		errors = append(errors, fmt.Sprintf("video bitrate: %v", err))
	}

	if err := c.Tools.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("tools config: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks that both tool paths are set
func (tc *ToolsConfig) Validate() error {
	var errors []string

	if tc.FFmpeg == "" {
		errors = append(errors, "ffmpeg path is required")
	}
	if tc.FFprobe == "" {
		errors = append(errors, "ffprobe path is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}

func validateExtension(ext string) error {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return fmt.Errorf("extension is required")
	}
	if strings.ContainsAny(ext, `/\. `) {
		return fmt.Errorf("extension '%s' must be a bare name such as mp4", ext)
	}
	return nil
}
