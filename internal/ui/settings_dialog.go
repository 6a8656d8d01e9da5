package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/ytdown/internal/config"
	"github.com/ytget/ytdown/internal/format"
)

// SettingsDialog edits the persisted preferences
type SettingsDialog struct {
	settings *config.Settings
	catalog  *format.Catalog
	window   fyne.Window
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	downloadDirEntry *widget.Entry
	formatSelect     *widget.Select
	filenameEntry    *widget.Entry
	autoRevealCheck  *widget.Check
}

// ShowSettingsDialog builds and shows the dialog. onSaved runs after the
// values were stored.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, catalog *format.Catalog, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, catalog, window)
	sd.onSaved = onSaved
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, catalog *format.Catalog, window fyne.Window) *SettingsDialog {
	if catalog == nil {
		catalog = format.Default()
	}
	sd := &SettingsDialog{
		settings: settings,
		catalog:  catalog,
		window:   window,
	}
	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	sd.downloadDirEntry.SetPlaceHolder("Download directory path")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.formatSelect = widget.NewSelect(sd.catalog.DisplayNames(), nil)

	sd.filenameEntry = widget.NewEntry()
	sd.filenameEntry.SetPlaceHolder(config.DefaultFilenameTemplate)

	sd.autoRevealCheck = widget.NewCheck("Reveal file when a download completes", nil)

	form := container.NewVBox(
		widget.NewLabel("Download Directory (applies after restart):"),
		downloadDirRow,
		widget.NewLabel("Default Format:"),
		sd.formatSelect,
		widget.NewLabel("Filename Template (applies after restart):"),
		sd.filenameEntry,
		widget.NewSeparator(),
		sd.autoRevealCheck,
	)

	sd.dialog = dialog.NewCustomConfirm(TextSettings, TextSave, TextCancel, form, sd.onSave, sd.window)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	if spec, err := sd.catalog.Lookup(sd.settings.GetDefaultFormat(sd.catalog)); err == nil {
		sd.formatSelect.SetSelected(spec.DisplayName)
	}
	sd.filenameEntry.SetText(sd.settings.GetFilenameTemplate())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave stores the edited values
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
	if sd.onSaved != nil {
		sd.onSaved()
	}
}

func (sd *SettingsDialog) save() {
	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if key, ok := sd.catalog.KeyForDisplayName(sd.formatSelect.Selected); ok {
		sd.settings.SetDefaultFormat(key)
	}
	sd.settings.SetFilenameTemplate(sd.filenameEntry.Text)
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)
}
