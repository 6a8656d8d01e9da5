package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/ytdown/internal/config"
	"github.com/ytget/ytdown/internal/download"
	"github.com/ytget/ytdown/internal/events"
	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/logging"
	"github.com/ytget/ytdown/internal/platform"
	"github.com/ytget/ytdown/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	ShutdownTimeout = 10 * time.Second
	InstallTimeout  = 2 * time.Minute
)

func main() {
	env, envErr := config.LoadEnv()
	logger := logging.New(env.LogLevel, env.LogConsole)
	if envErr != nil {
		logger.Warn().Err(envErr).Msg("ignoring dotenv files")
	}
	logger.Info().Str("version", version).Msg("YouTube Downloader starting")

	// Create new Fyne app
	myApp := app.NewWithID(config.AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(myApp)
	settings.ApplyEnv(env)

	windowTitle := fmt.Sprintf("%s v%s", config.AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(config.WindowMinWidth, config.WindowMinHeight))

	downloadDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		logger.Error().Err(err).Str("dir", downloadDir).Msg("failed to ensure download directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := download.NewYTDLPEngine(downloadDir, logger)
	engine.SetFilenameTemplate(settings.GetFilenameTemplate())
	if env.InstallYTDLP {
		installCtx, cancelInstall := context.WithTimeout(ctx, InstallTimeout)
		if err := engine.EnsureInstalled(installCtx); err != nil {
			logger.Error().Err(err).Msg("yt-dlp bootstrap failed")
		}
		cancelInstall()
	}

	catalog := format.Default()
	bus := events.NewBus(logger)
	downloadSvc := download.NewService(download.Options{
		Catalog:   catalog,
		Engine:    engine,
		Publisher: bus,
		Logger:    logger,
	})

	// Create and setup UI; it subscribes before the bus dispatches
	if _, err := ui.NewRootUI(ui.Options{
		App:       myApp,
		Window:    myWindow,
		Settings:  settings,
		Catalog:   catalog,
		Submitter: downloadSvc,
		Bus:       bus,
		Playlists: platform.NewPlaylistExpander(logger),
		Logger:    logger,
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to build main window")
	}

	if err := bus.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start event bus")
	}
	if err := downloadSvc.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start download worker")
	}

	// Show and run
	myWindow.ShowAndRun()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancelShutdown()
	if err := downloadSvc.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Int("pending", downloadSvc.Pending()).Msg("download worker did not drain in time")
	}
	cancel()
	bus.Close()
	logger.Info().Msg("YouTube Downloader stopped")
}
