package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/ytdown/internal/config"
	"github.com/ytget/ytdown/internal/download"
	"github.com/ytget/ytdown/internal/events"
	"github.com/ytget/ytdown/internal/format"
	"github.com/ytget/ytdown/internal/logging"
	"github.com/ytget/ytdown/internal/platform"
	"github.com/ytget/ytdown/internal/tui"
)

// LogFileName is created inside the download directory unless -log is set
const LogFileName = "ytdown-tui.log"

type options struct {
	downloadDir string
	formatKey   string
	logPath     string
}

func main() {
	// Command line flags
	var (
		dirFlag    = flag.String("dir", "", "Download directory (overrides "+config.EnvDownloadDir+")")
		formatFlag = flag.String("format", "", "Initial format key (overrides "+config.EnvFormat+")")
		logFlag    = flag.String("log", "", "Log file path (default: <download dir>/"+LogFileName+")")
	)
	flag.Parse()

	if err := run(options{downloadDir: *dirFlag, formatKey: *formatFlag, logPath: *logFlag}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	downloadDir, err := resolveDownloadDir(opts.downloadDir, env.DownloadDir)
	if err != nil {
		return err
	}
	if err := platform.CreateDirectoryIfNotExists(downloadDir); err != nil {
		return err
	}

	catalog := format.Default()
	formatKey := firstNonEmpty(opts.formatKey, env.FormatKey, format.DefaultKey)
	if _, err := catalog.Lookup(formatKey); err != nil {
		return err
	}

	// the terminal belongs to the TUI, so logs go to a file
	logPath := firstNonEmpty(opts.logPath, filepath.Join(downloadDir, LogFileName))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.NewWithWriter(logFile, env.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := download.NewYTDLPEngine(downloadDir, logger)
	if env.InstallYTDLP {
		fmt.Println("Installing yt-dlp...")
		if err := engine.EnsureInstalled(ctx); err != nil {
			return err
		}
	}

	bus := events.NewBus(logger)
	svc := download.NewService(download.Options{
		Catalog:   catalog,
		Engine:    engine,
		Publisher: bus,
		Logger:    logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	program := tea.NewProgram(tui.NewModel(tui.Options{
		Submitter:   svc,
		Catalog:     catalog,
		Playlists:   platform.NewPlaylistExpander(logger),
		FormatKey:   formatKey,
		DownloadDir: downloadDir,
	}), tea.WithAltScreen(), tea.WithContext(gctx))

	if err := tui.Subscribe(bus, program); err != nil {
		return err
	}

	g.Go(func() error {
		return ignoreCanceled(svc.Run(gctx))
	})
	g.Go(func() error {
		return ignoreCanceled(bus.Run(gctx))
	})
	g.Go(func() error {
		// quitting the TUI stops the worker and the dispatcher
		defer stop()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	err = g.Wait()
	logger.Info().Int("pending", svc.Pending()).Msg("ytdown-tui stopped")
	return err
}

func resolveDownloadDir(candidates ...string) (string, error) {
	if dir := firstNonEmpty(candidates...); dir != "" {
		return dir, nil
	}
	return platform.DefaultDownloadDir()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
