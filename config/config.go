package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds all splitter configuration options
type Config struct {
	// Paths used when Interactive is false
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Interactive asks for both paths with native dialogs
	Interactive bool `yaml:"interactive"`

	// Segmenting
	SegmentLength float64 `yaml:"segment_length"` // maximum seconds per segment
	Extension     string  `yaml:"extension"`      // output container extension
	Mode          string  `yaml:"mode"`           // "copy" or "reencode"
	VideoBitrate  string  `yaml:"video_bitrate"`  // e.g. "4500k", "5M"; overrides the probed bitrate in reencode mode

	// External tools
	Tools ToolsConfig `yaml:"tools"`

	// Behavioral flags
	StrictMode bool `yaml:"strict_mode"` // Abort on the first failed segment
	Verbose    bool `yaml:"verbose"`     // Debug logging
	DryRun     bool `yaml:"dry_run"`     // Probe and plan only

	// SaveConfig writes the effective configuration to this path and exits
	SaveConfig string `yaml:"-"`
}

// ToolsConfig locates the external media tools
type ToolsConfig struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Input:     "input.mp4",
		OutputDir: "output",

		Interactive: false,

		SegmentLength: 270, // 4 minutes 30 seconds
		Extension:     "mp4",
		Mode:          ModeCopy, // Lossless, keyframe-aligned cuts
		VideoBitrate:  "",       // Use the probed bitrate

		Tools: ToolsConfig{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},

		StrictMode: true,
		Verbose:    false,
		DryRun:     false,
	}
}

const (
	ModeCopy     = "copy"
	ModeReencode = "reencode"
)

// ModeValues returns valid mode values
func ModeValues() []string {
	return []string{ModeCopy, ModeReencode}
}

// IsValidMode checks if mode is valid
func IsValidMode(mode string) bool {
	for _, valid := range ModeValues() {
		if mode == valid {
			return true
		}
	}
	return false
}

// ParseBitrate converts "4500000", "4500k" or "4.5M" to bits per second.
// An empty string yields 0.
func ParseBitrate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	multiplier := 1.0
	switch strings.ToLower(s[len(s)-1:]) {
	case "k":
		multiplier = 1e3
		s = s[:len(s)-1]
	case "m":
		multiplier = 1e6
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bitrate %q", s)
	}
	if value <= 0 {
		return 0, fmt.Errorf("bitrate must be positive")
	}

	return int64(value * multiplier), nil
}
