package models

import (
	"fmt"
	"strconv"
)

// MediaProbe is a read-only snapshot of the source file taken once per run.
//
// Bitrate is in bits per second. Zero means the source did not report one;
// AudioCodec is empty when the source carries no audio stream.
type MediaProbe struct {
	Duration   float64 `json:"duration"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	AudioCodec string  `json:"audio_codec"`
	Bitrate    int64   `json:"bitrate"`
}

// GetDuration returns the probed duration in seconds.
func (p MediaProbe) GetDuration() (float64, error) {
	if p.Duration <= 0 {
		return 0, fmt.Errorf("invalid duration: %.2f seconds", p.Duration)
	}
	return p.Duration, nil
}

// Resolution renders the video size as WIDTHxHEIGHT.
func (p MediaProbe) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// HasBitrate reports whether the source carried bitrate metadata.
func (p MediaProbe) HasBitrate() bool {
	return p.Bitrate > 0
}

// BitrateString returns the bitrate in bits per second, or "" when unknown.
func (p MediaProbe) BitrateString() string {
	if !p.HasBitrate() {
		return ""
	}
	return strconv.FormatInt(p.Bitrate, 10)
}
