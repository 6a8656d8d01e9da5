package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytdown/internal/model"
	"github.com/ytget/ytdown/internal/platform"
)

// RowActions are the callbacks behind a row's buttons. Each receives the
// row's output path.
type RowActions struct {
	OnReveal   func(filePath string)
	OnOpen     func(filePath string)
	OnCopyPath func(filePath string)
}

// JobRow renders one JobView
type JobRow struct {
	widget.BaseWidget

	view    model.JobView
	actions RowActions

	stripe       *canvas.Rectangle
	titleLabel   *widget.Label
	formatLabel  *widget.Label
	statusLabel  *widget.Label
	percentLabel *widget.Label
	sizeLabel    *widget.Label
	progressBar  *widget.ProgressBar
	revealBtn    *widget.Button
	playBtn      *widget.Button
	copyBtn      *widget.Button
}

// NewJobRow creates an empty row; list items are filled through SetView
func NewJobRow(actions RowActions) *JobRow {
	r := &JobRow{actions: actions}
	r.ExtendBaseWidget(r)
	r.createUI()
	r.updateFromView()
	return r
}

// SetView replaces the displayed state. The view is copied.
func (r *JobRow) SetView(view model.JobView) {
	r.view = view
	r.updateFromView()
	r.Refresh()
}

// View returns the displayed state
func (r *JobRow) View() model.JobView {
	return r.view
}

func (r *JobRow) createUI() {
	r.stripe = canvas.NewRectangle(ColorPending)
	r.stripe.SetMinSize(fyne.NewSize(StateStripeWidth, 0))

	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.formatLabel = widget.NewLabel("")
	r.formatLabel.TextStyle = fyne.TextStyle{Monospace: true}

	r.statusLabel = widget.NewLabel("")
	r.statusLabel.Truncation = fyne.TextTruncateEllipsis

	r.percentLabel = widget.NewLabel("")
	r.percentLabel.Alignment = fyne.TextAlignTrailing

	r.sizeLabel = widget.NewLabel("")

	r.progressBar = widget.NewProgressBar()
	r.progressBar.TextFormatter = func() string { return "" }

	// reveal in file manager
	r.revealBtn = widget.NewButton(TextReveal, func() {
		if r.actions.OnReveal != nil && r.view.OutputPath != "" {
			r.actions.OnReveal(r.view.OutputPath)
		}
	})
	// open with default app (player)
	r.playBtn = widget.NewButton(TextPlay, func() {
		if r.actions.OnOpen != nil && r.view.OutputPath != "" {
			r.actions.OnOpen(r.view.OutputPath)
		}
	})
	r.copyBtn = widget.NewButton(TextCopyPath, func() {
		if r.actions.OnCopyPath != nil && r.view.OutputPath != "" {
			r.actions.OnCopyPath(r.view.OutputPath)
		}
	})
}

// updateFromView pushes view state into the widgets
func (r *JobRow) updateFromView() {
	v := r.view

	r.titleLabel.SetText(v.GetDisplayTitle())
	r.formatLabel.SetText(v.FormatKey)
	r.statusLabel.SetText(statusText(v))
	r.statusLabel.Importance = statusImportance(v.State)

	r.stripe.FillColor = StateColor(v.State)
	r.stripe.Refresh()

	r.progressBar.SetValue(float64(v.Percent) / 100)
	if v.State == model.JobStateCompleted {
		r.percentLabel.SetText("")
	} else {
		r.percentLabel.SetText(fmt.Sprintf(ProgressLabelFormat, v.Percent))
	}

	if v.FileSize > 0 {
		r.sizeLabel.SetText(fmt.Sprintf(SizeLabelFormat, platform.FormatFileSize(v.FileSize)))
	} else {
		r.sizeLabel.SetText("")
	}

	if v.State == model.JobStateCompleted && v.OutputPath != "" {
		r.revealBtn.Enable()
		r.playBtn.Enable()
		r.copyBtn.Enable()
	} else {
		r.revealBtn.Disable()
		r.playBtn.Disable()
		r.copyBtn.Disable()
	}
}

// statusText prefixes the verbatim status with a state icon
func statusText(v model.JobView) string {
	if v.Status == "" {
		return DashPlaceholder
	}
	switch v.State {
	case model.JobStatePending:
		return IconPending + " " + v.Status
	case model.JobStateDownloading:
		return IconPlay + " " + v.Status
	case model.JobStateConverting:
		return IconConvert + " " + v.Status
	case model.JobStateCompleted:
		return IconDone + " " + v.Status
	case model.JobStateError:
		return IconError + " " + v.Status
	default:
		return v.Status
	}
}

func statusImportance(state model.JobState) widget.Importance {
	switch state {
	case model.JobStateError:
		return widget.DangerImportance
	case model.JobStateCompleted:
		return widget.SuccessImportance
	case model.JobStateDownloading:
		return widget.HighImportance
	case model.JobStateConverting:
		return widget.WarningImportance
	default:
		return widget.MediumImportance
	}
}

// CreateRenderer lays out title and info on the left, buttons pinned right
func (r *JobRow) CreateRenderer() fyne.WidgetRenderer {
	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	info := container.NewHBox(
		fixedWidth(FormatLabelWidth, r.formatLabel),
		fixedWidth(StatusLabelWidth, r.statusLabel),
		r.sizeLabel,
	)
	actions := container.NewHBox(r.revealBtn, r.playBtn, r.copyBtn)
	progress := container.NewBorder(nil, nil, nil, fixedWidth(PercentLabelWidth, r.percentLabel), r.progressBar)

	body := container.NewVBox(
		container.NewBorder(nil, nil, nil, actions, r.titleLabel),
		info,
		progress,
	)
	content := container.NewBorder(nil, widget.NewSeparator(), r.stripe, nil, body)
	return widget.NewSimpleRenderer(content)
}

// MinSize keeps rows readable inside narrow lists
func (r *JobRow) MinSize() fyne.Size {
	size := r.BaseWidget.MinSize()
	return fyne.NewSize(max(size.Width, RowMinWidth), max(size.Height, RowMinHeight))
}
