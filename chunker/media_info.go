package chunker

// MediaInfo represents the minimal media file metadata needed for planning.
//
// This interface decouples the chunker from the probing implementation,
// so plans can be tested against fixed durations.
type MediaInfo interface {
	// GetDuration returns the media file duration in seconds.
	// Returns an error if duration is not available or invalid.
	GetDuration() (float64, error)
}

// Duration is a MediaInfo backed by a plain number of seconds.
type Duration float64

// GetDuration implements MediaInfo.
func (d Duration) GetDuration() (float64, error) {
	return float64(d), nil
}
