package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobIDPrefix prefixes every generated job identifier
const JobIDPrefix = "job-"

// DownloadJob is one submitted (url, format) pair. It is immutable once
// enqueued; URL is the identity observers key their view state on.
type DownloadJob struct {
	ID          string
	URL         string
	FormatKey   string
	SubmittedAt time.Time
}

// NewDownloadJob creates a job with a fresh instance ID. The ID only
// distinguishes repeated submissions of the same URL in logs.
func NewDownloadJob(url, formatKey string) DownloadJob {
	return DownloadJob{
		ID:          generateJobID(),
		URL:         strings.TrimSpace(url),
		FormatKey:   strings.TrimSpace(formatKey),
		SubmittedAt: time.Now(),
	}
}

// generateJobID uses UUID v7 so IDs sort by submission time
func generateJobID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(JobIDPrefix+"%d", time.Now().UnixNano())
	}
	return JobIDPrefix + id.String()
}
