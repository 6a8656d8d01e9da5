package model

import "strings"

// Status messages published by the coordinator
const (
	StatusConverting  = "Converting..."
	StatusComplete    = "Complete"
	StatusErrorPrefix = "Error: "
)

// EventKind identifies a JobEvent variant.
type EventKind int

const (
	KindTitleResolved EventKind = iota
	KindProgress
	KindStatusChanged
	KindFinished
)

// String returns the kind name used in logs
func (k EventKind) String() string {
	switch k {
	case KindTitleResolved:
		return "title_resolved"
	case KindProgress:
		return "progress"
	case KindStatusChanged:
		return "status_changed"
	case KindFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// JobEvent is an immutable message about one job, keyed by URL.
type JobEvent interface {
	JobURL() string
	Kind() EventKind
}

// TitleResolved carries the title found by metadata resolution.
type TitleResolved struct {
	URL   string
	Title string
}

// Progress carries a download percentage in [0,100].
type Progress struct {
	URL     string
	Percent int
}

// StatusChanged carries a human readable lifecycle message.
type StatusChanged struct {
	URL     string
	Message string
}

// Finished carries the final path of the produced file.
type Finished struct {
	URL      string
	FilePath string
}

func (e TitleResolved) JobURL() string { return e.URL }
func (e Progress) JobURL() string      { return e.URL }
func (e StatusChanged) JobURL() string { return e.URL }
func (e Finished) JobURL() string      { return e.URL }

func (TitleResolved) Kind() EventKind { return KindTitleResolved }
func (Progress) Kind() EventKind      { return KindProgress }
func (StatusChanged) Kind() EventKind { return KindStatusChanged }
func (Finished) Kind() EventKind      { return KindFinished }

// ErrorStatus builds the status published for a failure.
func ErrorStatus(url string, err error) StatusChanged {
	return StatusChanged{URL: url, Message: StatusErrorPrefix + err.Error()}
}

// IsError reports whether the status message describes a failure.
func (e StatusChanged) IsError() bool {
	return strings.HasPrefix(e.Message, StatusErrorPrefix)
}
