package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"churchmap/internal/config"
	"churchmap/internal/dataset"
	"churchmap/internal/logger"
	"churchmap/internal/repository/memory"
	"churchmap/internal/services"
)

// Global flags shared by every command.
var (
	configPath string
	remoteURL  string
	offline    bool
)

func addGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&remoteURL, "remote", "", "remote directory URL (overrides config)")
	root.PersistentFlags().BoolVar(&offline, "offline", false, "ignore any configured remote directory")
}

// app is the client-side stack the query commands share.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	data     *services.DataAccessService
	location *services.LocationService
	search   *services.SearchService
	notifier *services.NotificationService
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if remoteURL != "" {
		cfg.Remote.BaseURL = remoteURL
	}
	if offline {
		cfg.Remote.BaseURL = ""
	}
	return cfg, logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}

// newApp wires the client stack. Notices go to the command's stderr.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store := memory.NewDirectoryStore(
		dataset.LoaderFor(cfg.Offline.DatasetPath),
		memory.WithLatency(cfg.Offline.SimulatedLatency),
	)
	data := services.NewDataAccessService(store, cfg.Remote, log)
	notifier := services.NewNotificationService(cmd.ErrOrStderr(), log)
	notifier.Attach(data)
	if !data.RemoteConfigured() {
		notifier.NotifyModeChange(data.Mode())
	}
	location := services.NewLocationService(log)

	return &app{
		cfg:      cfg,
		logger:   log,
		data:     data,
		location: location,
		search:   services.NewSearchService(data, location, log),
		notifier: notifier,
	}, nil
}

// close releases the location feed.
func (a *app) close() {
	a.location.Close()
}
