package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"github.com/ytget/ytdown/internal/model"
)

// Job state colors
var (
	ColorCompleted  = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	ColorError      = color.RGBA{R: 183, G: 28, B: 28, A: 255}
	ColorConverting = color.RGBA{R: 255, G: 193, B: 7, A: 255}
	ColorActive     = color.RGBA{R: 25, G: 118, B: 210, A: 255}
	ColorPending    = color.RGBA{R: 158, G: 158, B: 158, A: 255}
)

// StateColor returns the stripe color of a job row
func StateColor(state model.JobState) color.Color {
	switch state {
	case model.JobStateCompleted:
		return ColorCompleted
	case model.JobStateError:
		return ColorError
	case model.JobStateConverting:
		return ColorConverting
	case model.JobStateDownloading:
		return ColorActive
	default:
		return ColorPending
	}
}

// CompactTheme defines a compact theme for the UI with reduced padding and font sizes
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

// Color maps semantic colors onto the job state palette
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return ColorCompleted
	case theme.ColorNameError:
		return ColorError
	case theme.ColorNameWarning:
		return ColorConverting
	case theme.ColorNamePrimary:
		return ColorActive
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	}
	return theme.DefaultTheme().Size(name)
}
