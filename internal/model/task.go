package model

import "image/color"

// WatermarkSpec holds the style shared by every task in a batch.
// It is passed by value and never modified once the batch starts.
type WatermarkSpec struct {
	FontSize int         // requested size in points, > 0
	Color    color.Color // text fill colour
	Anchor   Anchor
	Margin   int // inset from the anchored edges in pixels, >= 0
}

// Outcome is the terminal state of a task.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result records what happened to one task.
type Result struct {
	Task       ImageTask
	Outcome    Outcome
	Date       CaptureDate // zero unless metadata was found
	OutputPath string      // set only for processed tasks
	Err        error       // set only for failed tasks
}

// BatchReport aggregates the results of a run in processing order.
type BatchReport struct {
	OutputRoot string
	Processed  int
	Skipped    int
	Failed     int
	Results    []Result
}

// Add appends r and updates the counters.
func (r *BatchReport) Add(res Result) {
	switch res.Outcome {
	case OutcomeProcessed:
		r.Processed++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
	r.Results = append(r.Results, res)
}

// Total returns the number of tasks attempted.
func (r BatchReport) Total() int {
	return r.Processed + r.Skipped + r.Failed
}
