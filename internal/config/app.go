package config

// Static application configuration
const (
	AppID           = "com.ytget.ytdown"
	AppName         = "YouTube Downloader"
	WindowMinWidth  = 1000
	WindowMinHeight = 600
	URLPlaceholder  = "Enter YouTube URL"
)
