package library

import "time"

// Status is the terminal or in-flight state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Job is one extraction run.
type Job struct {
	ID           string
	Medium       string
	Album        string
	Artist       string
	TrackCount   int
	Joined       bool
	Status       Status
	ErrorMessage string
	AlbumPeak    *float64
	AlbumGain    *float64
	CreatedAt    time.Time
	FinishedAt   *time.Time
}

// File is one audio file produced by a job.
type File struct {
	ID        int64
	JobID     string
	Path      string
	Tracks    []int
	Title     string
	Frames    int64
	Peak      float64
	Gain      *float64
	CreatedAt time.Time
}

// Outcome is the final state recorded for a job.
type Outcome struct {
	Status    Status
	Message   string
	AlbumPeak *float64
	AlbumGain *float64
}
