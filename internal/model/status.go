package model

// JobState is the subscriber-side lifecycle of a job row
type JobState string

const (
	// JobStatePending means the job is queued but no event arrived yet
	JobStatePending JobState = "Pending"

	// JobStateDownloading means progress events are flowing
	JobStateDownloading JobState = "Downloading"

	// JobStateConverting means the engine is post-processing the download
	JobStateConverting JobState = "Converting"

	// JobStateCompleted means a Finished event was received
	JobStateCompleted JobState = "Completed"

	// JobStateError means a terminal error status was received
	JobStateError JobState = "Error"
)

// String returns the string representation of JobState
func (s JobState) String() string {
	return string(s)
}

// IsActive returns true while the worker is busy with the job
func (s JobState) IsActive() bool {
	return s == JobStateDownloading || s == JobStateConverting
}

// IsFinished returns true once a terminal event was received
func (s JobState) IsFinished() bool {
	return s == JobStateCompleted || s == JobStateError
}
