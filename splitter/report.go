package splitter

import (
	"splitter/models"
	"time"
)

// Report summarises a run.
type Report struct {
	Source    string
	OutputDir string
	Probe     models.MediaProbe
	Segments  []*models.Segment
	Results   []*models.SegmentResult
	Elapsed   time.Duration
}

// Succeeded returns the number of segments written.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res != nil && res.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of segments that could not be written.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res != nil && !res.Success {
			n++
		}
	}
	return n
}

// OutputPaths lists the files written, in segment order.
func (r *Report) OutputPaths() []string {
	var paths []string
	for _, res := range r.Results {
		if res != nil && res.Success {
			paths = append(paths, res.OutputPath)
		}
	}
	return paths
}
