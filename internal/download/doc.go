package download

// Package download implements the serialized download pipeline built on top of
// yt-dlp (via github.com/lrstanley/go-ytdlp): an unbounded FIFO job queue, a
// single worker that runs one job at a time, and the normalization of the
// engine's textual progress into job events.
