package platform

// Package platform contains OS integration and external tooling glue:
// filesystem helpers, human readable sizes, playlist expansion via the
// ytdlp library, and OS open/reveal.
