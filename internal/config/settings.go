package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyDefaultFormat      = "default_format"
	KeyFilenameTemplate   = "filename_template"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultFormat             = format.DefaultKey
	DefaultFilenameTemplate   = "%(title)s.%(ext)s"
	DefaultAutoRevealComplete = false
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		defaultDir, err := platform.DefaultDownloadDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), platform.AppDirName)
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetDefaultFormat returns the format key preselected in the UI. Keys not
// in catalog fall back to DefaultFormat.
func (s *Settings) GetDefaultFormat(catalog *format.Catalog) string {
	key := s.app.Preferences().String(KeyDefaultFormat)
	if key == "" {
		s.SetDefaultFormat(DefaultFormat)
		return DefaultFormat
	}
	if catalog != nil {
		if _, err := catalog.Lookup(key); err != nil {
			return DefaultFormat
		}
	}
	return key
}

// SetDefaultFormat sets the preselected format key
func (s *Settings) SetDefaultFormat(key string) {
	s.app.Preferences().SetString(KeyDefaultFormat, key)
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.app.Preferences().String(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(DefaultFilenameTemplate)
		return DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	s.app.Preferences().SetString(KeyFilenameTemplate, template)
}

// GetAutoRevealOnComplete returns whether to auto-reveal completed downloads
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to auto-reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// ApplyEnv stores the environment overrides that are set
func (s *Settings) ApplyEnv(env Env) {
	if env.DownloadDir != "" {
		s.SetDownloadDirectory(env.DownloadDir)
	}
	if env.FormatKey != "" {
		s.SetDefaultFormat(env.FormatKey)
	}
}
