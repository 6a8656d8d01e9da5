package download

import (
	"context"

	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
)

// Metadata is what the engine knows about a URL before downloading.
type Metadata struct {
	Title string
}

// Result is returned by a successful Execute.
type Result struct {
	// ReportedPath is the file name the engine reported. For audio
	// extraction it still carries the pre-transcode extension.
	ReportedPath string
}

// ProgressFunc receives raw engine notifications.
type ProgressFunc func(RawProgress)

// Engine is the external media extraction/transcoding capability.
type Engine interface {
	ResolveMetadata(ctx context.Context, url string) (*Metadata, error)
	Execute(ctx context.Context, url string, opts format.EngineOptions, onProgress ProgressFunc) (*Result, error)
}

// Publisher delivers job events to the presentation layer.
type Publisher interface {
	Publish(ev model.JobEvent)
}

// Submitter is the fire-and-forget surface exposed to presentation layers.
type Submitter interface {
	Submit(url, formatKey string) model.DownloadJob
}
