// Package ffmpeg parses the machine-readable progress report that ffmpeg
// writes when invoked with "-progress pipe:1".
package ffmpeg

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"splitter/models"
	"strconv"
	"strings"
)

// ProgressParser parses ffmpeg -progress key=value output
type ProgressParser struct{}

// NewProgressParser creates a new parser for ffmpeg progress output
func NewProgressParser() *ProgressParser {
	return &ProgressParser{}
}

// ParseLine parses a single key=value line and updates the progress.
// Returns true if the line changed the progress.
func (pp *ProgressParser) ParseLine(line string, progress *models.EncodingProgress) bool {
	line = strings.TrimSpace(line)
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return false
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return false
	}

	switch key {
	case "frame":
		frame, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		progress.Frame = frame

	case "fps":
		fps, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		progress.FPS = fps

	case "bitrate":
		progress.Bitrate = value

	case "total_size":
		size, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return false
		}
		progress.TotalSize = size

	case "out_time":
		seconds, ok := timeToSeconds(value)
		if !ok {
			return false
		}
		progress.CurrentTime = value
		progress.CalculateProgress(seconds)

	case "speed":
		speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64)
		if err != nil {
			return false
		}
		progress.Speed = speed

	case "progress":
		switch value {
		case "continue":
			progress.State = models.ProgressStateRunning
		case "end":
			progress.State = models.ProgressStateCompleted
			progress.CalculateProgress(progress.TotalDuration)
		default:
			return false
		}

	default:
		return false
	}

	return true
}

// StreamProgress reads ffmpeg progress output and invokes callback at the end
// of every report block (each "progress=" line).
func (pp *ProgressParser) StreamProgress(reader io.Reader, progress *models.EncodingProgress, callback models.ProgressCallback) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	blocks := 0
	for scanner.Scan() {
		line := scanner.Text()
		if !pp.ParseLine(line, progress) {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "progress=") {
			blocks++
			if callback != nil {
				callback(progress)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading ffmpeg progress: %w", err)
	}

	if blocks == 0 {
		return fmt.Errorf("no progress output captured from ffmpeg")
	}

	return nil
}

// ParseOutput parses a complete captured progress report.
func (pp *ProgressParser) ParseOutput(output []byte, progress *models.EncodingProgress) error {
	return pp.StreamProgress(bytes.NewReader(output), progress, nil)
}

// timeToSeconds converts ffmpeg time format (HH:MM:SS.micro) to seconds
func timeToSeconds(timeStr string) (float64, bool) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return 0, false
	}

	hours, err1 := strconv.ParseFloat(parts[0], 64)
	minutes, err2 := strconv.ParseFloat(parts[1], 64)
	seconds, err3 := strconv.ParseFloat(parts[2], 64)

	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}

	// ffmpeg reports negative out_time before the first packet
	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, false
	}

	return hours*3600 + minutes*60 + seconds, true
}
