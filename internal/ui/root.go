package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/ytdown/internal/config"
	"github.com/ytget/ytdown/internal/download"
	"github.com/ytget/ytdown/internal/events"
	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/model"
	"github.com/ytget/ytdown/internal/platform"
)

// PlaylistExpander lists the videos of a playlist URL
type PlaylistExpander interface {
	Expand(ctx context.Context, url string) (*model.Playlist, error)
}

// Options wires the root UI to the core
type Options struct {
	App       fyne.App
	Window    fyne.Window
	Settings  *config.Settings
	Catalog   *format.Catalog
	Submitter download.Submitter
	Bus       *events.Bus
	Playlists PlaylistExpander
	Logger    zerolog.Logger
}

// RootUI is the main window: URL entry, format picker and the job list.
// All fields are touched on the fyne thread only; bus handlers marshal
// through fyne.Do before reaching them.
type RootUI struct {
	app       fyne.App
	window    fyne.Window
	settings  *config.Settings
	catalog   *format.Catalog
	submitter download.Submitter
	playlists PlaylistExpander
	logger    zerolog.Logger

	board *model.Board

	urlEntry     *widget.Entry
	formatSelect *widget.Select
	addBtn       *widget.Button
	jobList      *widget.List

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationTimer     *time.Timer
}

// NewRootUI builds the window content and subscribes to job events. It
// must be called before the bus starts dispatching.
func NewRootUI(opts Options) (*RootUI, error) {
	if opts.Submitter == nil {
		return nil, errors.New("root UI requires a submitter")
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = format.Default()
	}

	ui := &RootUI{
		app:       opts.App,
		window:    opts.Window,
		settings:  opts.Settings,
		catalog:   catalog,
		submitter: opts.Submitter,
		playlists: opts.Playlists,
		logger:    opts.Logger.With().Str("component", "ui").Logger(),
		board:     model.NewBoard(),
	}

	if opts.Bus != nil {
		if err := ui.subscribe(opts.Bus); err != nil {
			return nil, fmt.Errorf("failed to subscribe to job events: %w", err)
		}
	}

	ui.setupUI()
	return ui, nil
}

// subscribe registers one handler per event kind. Handlers run on the bus
// dispatcher goroutine.
func (ui *RootUI) subscribe(bus *events.Bus) error {
	if err := bus.OnTitleResolved(func(url, title string) {
		fyne.Do(func() { ui.apply(model.TitleResolved{URL: url, Title: title}) })
	}); err != nil {
		return err
	}
	if err := bus.OnProgress(func(url string, percent int) {
		fyne.Do(func() { ui.apply(model.Progress{URL: url, Percent: percent}) })
	}); err != nil {
		return err
	}
	if err := bus.OnStatus(func(url, message string) {
		fyne.Do(func() { ui.apply(model.StatusChanged{URL: url, Message: message}) })
	}); err != nil {
		return err
	}
	return bus.OnFinished(func(url, filePath string) {
		// stat off the UI thread
		size, err := platform.FileSize(filePath)
		if err != nil {
			ui.logger.Warn().Err(err).Str("url", url).Str("path", filePath).Msg("cannot stat finished file")
		}
		fyne.Do(func() { ui.finish(url, filePath, size) })
	})
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(config.URLPlaceholder)
	ui.urlEntry.Validator = validateURL
	ui.urlEntry.OnSubmitted = func(string) { ui.onAddClick() }

	ui.formatSelect = widget.NewSelect(ui.catalog.DisplayNames(), nil)
	ui.formatSelect.SetSelected(ui.defaultFormatName())

	ui.addBtn = widget.NewButton(TextAddToQueue, ui.onAddClick)
	ui.addBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	controls := container.NewHBox(widget.NewLabel(TextFormat), ui.formatSelect, ui.addBtn)
	topPanel := container.NewBorder(nil, nil, settingsBtn, controls, ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.jobList = widget.NewList(
		func() int { return ui.board.Len() },
		func() fyne.CanvasObject {
			return NewJobRow(RowActions{
				OnReveal:   ui.onRevealFile,
				OnOpen:     ui.onOpenFile,
				OnCopyPath: ui.onCopyPath,
			})
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			views := ui.board.Views()
			if id < 0 || id >= len(views) {
				return
			}
			if row, ok := obj.(*JobRow); ok {
				row.SetView(*views[id])
			}
		},
	)

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		nil,
		nil,
		nil,
		ui.jobList,
	)
	if ui.window != nil {
		ui.window.SetContent(content)
	}
}

// defaultFormatName returns the display name of the preselected format
func (ui *RootUI) defaultFormatName() string {
	key := format.DefaultKey
	if ui.settings != nil {
		key = ui.settings.GetDefaultFormat(ui.catalog)
	}
	spec, err := ui.catalog.Lookup(key)
	if err != nil {
		return ""
	}
	return spec.DisplayName
}

// selectedFormatKey maps the select's display name back to a format key
func (ui *RootUI) selectedFormatKey() string {
	if key, ok := ui.catalog.KeyForDisplayName(ui.formatSelect.Selected); ok {
		return key
	}
	return format.DefaultKey
}

// validateURL is the entry validator
func validateURL(input string) error {
	return platform.ValidateURL(input)
}

// onAddClick handles the Add to Queue button and Enter in the URL field
func (ui *RootUI) onAddClick() {
	urlText := platform.CleanURL(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification(TextEnterURL, false)
		return
	}
	if err := validateURL(urlText); err != nil {
		ui.showNotification(TextInvalidURL+": "+err.Error(), false)
		return
	}

	key := ui.selectedFormatKey()
	if ui.playlists != nil && platform.IsPlaylistURL(urlText) {
		ui.handlePlaylistURL(urlText, key)
		return
	}

	ui.submit(urlText, key)
	ui.urlEntry.SetText("")
	ui.showNotification(TextQueued, false)
}

// submit enqueues one job and inserts its row at the top
func (ui *RootUI) submit(url, key string) {
	job := ui.submitter.Submit(url, key)
	ui.board.Add(job)
	ui.jobList.Refresh()
	ui.logger.Debug().Str("job_id", job.ID).Str("url", url).Str("format", key).Msg("row added")
}

// handlePlaylistURL expands the playlist off the UI thread and queues one
// job per video in playlist order.
func (ui *RootUI) handlePlaylistURL(url, key string) {
	ui.showNotification(TextParsing, true)
	ui.addBtn.Disable()

	go func() {
		playlist, err := ui.playlists.Expand(context.Background(), url)
		fyne.Do(func() {
			ui.addBtn.Enable()
			if err != nil {
				ui.logger.Error().Err(err).Str("url", url).Msg("playlist expansion failed")
				ui.showNotification(TextParsingFailed+": "+err.Error(), false)
				return
			}
			ui.queuePlaylist(playlist, key)
			ui.urlEntry.SetText("")
		})
	}()
}

func (ui *RootUI) queuePlaylist(playlist *model.Playlist, key string) {
	urls := playlist.VideoURLs()
	for _, u := range urls {
		ui.submit(u, key)
	}
	ui.showNotification(fmt.Sprintf("%s: %s (%d)", TextPlaylistQueued, playlist.Title, len(urls)), false)
}

// apply folds one event into the board and redraws the list
func (ui *RootUI) apply(ev model.JobEvent) {
	if _, ok := ui.board.Apply(ev); !ok {
		ui.logger.Debug().Str("url", ev.JobURL()).Stringer("kind", ev.Kind()).Msg("event for unknown row")
		return
	}
	ui.jobList.Refresh()
}

// finish applies a Finished event together with the file size
func (ui *RootUI) finish(url, filePath string, size int64) {
	ui.board.SetFileSize(url, size)
	ui.apply(model.Finished{URL: url, FilePath: filePath})

	view, ok := ui.board.Get(url)
	if !ok || ui.app == nil {
		return
	}
	ui.app.SendNotification(fyne.NewNotification(TextCompleted, view.GetDisplayTitle()))

	if ui.settings != nil && ui.settings.GetAutoRevealOnComplete() {
		ui.onRevealFile(filePath)
	}
}

// showNotification displays a message in the panel under the URL input.
// When spinning is true, a spinner indicates background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()

	if ui.notificationTimer != nil {
		ui.notificationTimer.Stop()
		ui.notificationTimer = nil
	}
	if !spinning {
		ui.notificationTimer = time.AfterFunc(NotificationAutoHide, func() {
			fyne.Do(ui.hideNotification)
		})
	}
}

func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}

func (ui *RootUI) onShowSettings() {
	if ui.settings == nil || ui.window == nil {
		return
	}
	ShowSettingsDialog(ui.window, ui.settings, ui.catalog, func() {
		ui.formatSelect.SetSelected(ui.defaultFormatName())
	})
}

// onRevealFile reveals a file in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	go func() {
		if err := platform.OpenFileInManager(filePath); err != nil {
			ui.logger.Error().Err(err).Str("path", filePath).Msg("reveal failed")
			fyne.Do(func() { ui.showNotification(TextOpenFailed+": "+err.Error(), false) })
		}
	}()
}

// onOpenFile opens a downloaded file with the default application
func (ui *RootUI) onOpenFile(filePath string) {
	go func() {
		if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
			ui.logger.Error().Err(err).Str("path", filePath).Msg("open failed")
			fyne.Do(func() { ui.showNotification(TextOpenFailed+": "+err.Error(), false) })
		}
	}()
}

// onCopyPath copies a file path to the clipboard
func (ui *RootUI) onCopyPath(filePath string) {
	if ui.app == nil {
		return
	}
	ui.app.Clipboard().SetContent(filePath)
	ui.showNotification(TextPathCopied, false)
}

// Board exposes the row state for tests and diagnostics
func (ui *RootUI) Board() *model.Board {
	return ui.board
}
