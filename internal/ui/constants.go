package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPending  = "⏳"
	IconConvert  = "⚙"
	IconDone     = "✔"
	IconError    = "❌"
	IconClose    = "×"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	SizeLabelFormat     = "Size: %s"
)

// Button and label texts
const (
	TextAddToQueue     = "Add to Queue"
	TextFormat         = "Format:"
	TextReveal         = "open"
	TextPlay           = "play"
	TextCopyPath       = "path"
	TextSettings       = "Settings"
	TextSave           = "Save"
	TextCancel         = "Cancel"
	TextEnterURL       = "Please enter a URL"
	TextInvalidURL     = "Invalid URL"
	TextQueued         = "Added to queue"
	TextParsing        = "Reading playlist..."
	TextParsingFailed  = "Playlist parsing failed"
	TextPlaylistQueued = "Playlist queued"
	TextCompleted      = "Download completed"
	TextPathCopied     = "Path copied to clipboard"
	TextOpenFailed     = "Error opening file"
)

// Layout sizing (JobRow / lists)
const (
	StatusLabelWidth  float32 = 160
	FormatLabelWidth  float32 = 64
	PercentLabelWidth float32 = 48
	StateStripeWidth  float32 = 4

	RowMinWidth  float32 = 400
	RowMinHeight float32 = 64
)

// Notification panel behavior
const (
	NotificationAutoHide = 5 * time.Second
)

// Dialog sizing
const (
	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360
)
