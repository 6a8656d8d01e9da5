package download

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/ytget/ytdown/internal/model"
)

// Engine progress statuses the normalizer reacts to
const (
	ProgressStatusDownloading = "downloading"
	ProgressStatusFinished    = "finished"
)

// Percent bounds
const (
	MinPercent = 0
	MaxPercent = 100
)

// RawProgress is one engine notification as received, before parsing.
type RawProgress struct {
	Status string
	// PercentText may carry color escapes, padding and a trailing '%'
	PercentText string
}

// NormalizeProgress turns a raw notification for url into a job event.
// ok is false when nothing should be published: unknown statuses and
// malformed percentages are dropped, never reported.
func NormalizeProgress(url string, raw RawProgress) (model.JobEvent, bool) {
	switch raw.Status {
	case ProgressStatusDownloading:
		percent, ok := ParsePercent(raw.PercentText)
		if !ok {
			return nil, false
		}
		return model.Progress{URL: url, Percent: percent}, true
	case ProgressStatusFinished:
		// download done, post-processing starts; not job completion
		return model.StatusChanged{URL: url, Message: model.StatusConverting}, true
	default:
		return nil, false
	}
}

// ParsePercent extracts a clamped integer percentage from noisy text.
// Escape sequences are removed first so their parameters never leak
// digits into the number; then everything but digits and '.' is dropped.
func ParsePercent(text string) (int, bool) {
	plain := ansi.Strip(text)

	var b strings.Builder
	for _, r := range plain {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	if value > MaxPercent {
		return MaxPercent, true
	}
	if value < MinPercent {
		return MinPercent, true
	}
	return int(value), true
}
