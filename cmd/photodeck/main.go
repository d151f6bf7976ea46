package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/mmcdole/photodeck/internal/adapter"
	"github.com/mmcdole/photodeck/internal/adapter/source"
	"github.com/mmcdole/photodeck/internal/catalog"
	"github.com/mmcdole/photodeck/internal/favourites"
	"github.com/mmcdole/photodeck/internal/store"
	"github.com/mmcdole/photodeck/internal/tui"
	"github.com/mmcdole/photodeck/internal/view"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	fs := pflag.NewFlagSet("photodeck", pflag.ContinueOnError)
	adapter.Flags(fs)
	showVersion := fs.BoolP("version", "v", false, "print version")
	writeConfig := fs.Bool("write-config", false, "save the effective configuration and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *showVersion {
		fmt.Printf("photodeck %s\n", Version)
		return
	}

	if err := run(fs, *writeConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(fs *pflag.FlagSet, writeConfig bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(fs)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if writeConfig {
		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Configuration saved to %s\n", filepath.Join(adapter.ConfigPath(), "config.yaml"))
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("photodeck needs an interactive terminal")
	}

	// Setup logger
	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer closer.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting photodeck", "version", Version, "api", cfg.API.BaseURL)

	// Favourites persistence
	storePath, err := adapter.ExpandHome(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("invalid storage path: %w", err)
	}
	kv, err := store.NewKVStore(storePath)
	if err != nil {
		return fmt.Errorf("failed to open favourites store: %w", err)
	}
	defer kv.Close()

	// Create API client
	repo, err := source.NewClientFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	// Create services
	favs := favourites.NewService(favourites.NewRepository(kv), favourites.NewBus(), logger.With("component", "favourites"))
	defer favs.Close()

	app, err := catalog.New(catalog.Env{
		Tree:       view.NewTree(logger.With("component", "view")),
		Repo:       repo,
		Favourites: favs,
		Logger:     logger.With("component", "catalog"),
	})
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}
	defer app.Close()

	// Create launcher (uses configured viewer or system default)
	launcher := adapter.NewLauncher(cfg.Viewer.Command, cfg.Viewer.Args, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.UI.StartView == adapter.ViewFavourites {
		app.ShowFavourites()
	}

	// Create TUI model
	model := tui.NewModel(ctx, app, launcher, logger.With("component", "tui"))

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
