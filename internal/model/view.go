package model

import (
	"strings"
)

// JobView is what a presentation layer shows for one URL
type JobView struct {
	URL        string
	FormatKey  string
	Title      string
	Percent    int      // 0 to 100
	State      JobState // lifecycle derived from events
	Status     string   // last status message, verbatim
	OutputPath string   // final file path once finished
	FileSize   int64    // size in bytes, 0 if unknown
}

// NewJobView creates the pending view for a freshly submitted job
func NewJobView(job DownloadJob) *JobView {
	return &JobView{
		URL:       job.URL,
		FormatKey: job.FormatKey,
		State:     JobStatePending,
		Status:    string(JobStatePending),
	}
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (v *JobView) GetDisplayTitle() string {
	if v.Title != "" {
		return v.Title
	}

	if v.OutputPath != "" {
		parts := strings.FieldsFunc(v.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return v.URL
}

// cleanText flattens control whitespace coming from engine output
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
