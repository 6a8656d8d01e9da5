package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdown/internal/format"
)

// yt-dlp invocation defaults
const (
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultProgressInterval = 500 * time.Millisecond
	PercentTextFormat       = "%5.1f%%"
)

// ErrNoInfo is returned when yt-dlp printed no parsable info JSON.
var ErrNoInfo = errors.New("yt-dlp returned no video info")

// YTDLPEngine runs the yt-dlp executable through go-ytdlp.
type YTDLPEngine struct {
	downloadDir      string
	filenameTemplate string
	progressInterval time.Duration
	logger           zerolog.Logger
}

// NewYTDLPEngine creates an engine writing into downloadDir
func NewYTDLPEngine(downloadDir string, logger zerolog.Logger) *YTDLPEngine {
	return &YTDLPEngine{
		downloadDir:      downloadDir,
		filenameTemplate: DefaultFilenameTemplate,
		progressInterval: DefaultProgressInterval,
		logger:           logger.With().Str("component", "yt-dlp").Logger(),
	}
}

// EnsureInstalled downloads the yt-dlp binary when none is available.
func (e *YTDLPEngine) EnsureInstalled(ctx context.Context) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	e.logger.Info().Str("executable", resolved.Executable).Str("version", resolved.Version).Msg("yt-dlp ready")
	return nil
}

// SetFilenameTemplate overrides the yt-dlp filename template. An empty
// template restores the default.
func (e *YTDLPEngine) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	e.filenameTemplate = template
}

// OutputTemplate returns the yt-dlp output template inside the download dir
func (e *YTDLPEngine) OutputTemplate() string {
	return filepath.Join(e.downloadDir, e.filenameTemplate)
}

// ResolveMetadata asks yt-dlp for the info JSON without downloading
func (e *YTDLPEngine) ResolveMetadata(ctx context.Context, url string) (*Metadata, error) {
	res, err := ytdlp.New().
		NoPlaylist().
		SkipDownload().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return nil, err
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse video info: %w", err)
	}
	if len(info) == 0 {
		return nil, ErrNoInfo
	}

	meta := &Metadata{}
	if info[0].Title != nil {
		meta.Title = *info[0].Title
	}
	return meta, nil
}

// Execute downloads url per opts and reports the file yt-dlp wrote
func (e *YTDLPEngine) Execute(ctx context.Context, url string, opts format.EngineOptions, onProgress ProgressFunc) (*Result, error) {
	dl := e.buildCommand(opts)
	dl.ProgressFunc(e.progressInterval, func(update ytdlp.ProgressUpdate) {
		if onProgress != nil {
			onProgress(rawProgressFromUpdate(update))
		}
	})

	e.logger.Debug().Str("url", url).Str("selector", opts.Format).Bool("extract_audio", opts.ExtractAudio).Msg("running yt-dlp")
	res, err := dl.Run(ctx, url)
	if err != nil {
		return nil, err
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse download info: %w", err)
	}
	if len(info) == 0 || info[0].Filename == nil {
		return nil, ErrNoInfo
	}
	return &Result{ReportedPath: *info[0].Filename}, nil
}

// buildCommand configures yt-dlp for one format
func (e *YTDLPEngine) buildCommand(opts format.EngineOptions) *ytdlp.Command {
	dl := ytdlp.New().
		NoPlaylist().
		Progress().
		PrintJSON().
		Output(e.OutputTemplate())

	if opts.Format != "" {
		dl.Format(opts.Format)
	}
	if opts.ExtractAudio {
		dl.ExtractAudio()
		if opts.AudioCodec != "" {
			dl.AudioFormat(opts.AudioCodec)
		}
		if opts.AudioQuality != "" {
			dl.AudioQuality(opts.AudioQuality)
		}
	}
	return dl
}

// rawProgressFromUpdate renders a go-ytdlp update as the textual
// notification the normalizer parses. Unknown totals give empty text.
func rawProgressFromUpdate(update ytdlp.ProgressUpdate) RawProgress {
	raw := RawProgress{Status: string(update.Status)}
	if update.TotalBytes > 0 {
		percent := float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		raw.PercentText = fmt.Sprintf(PercentTextFormat, percent)
	}
	return raw
}
