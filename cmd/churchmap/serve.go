package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"churchmap/internal/api"
	"churchmap/internal/api/handlers"
	"churchmap/internal/config"
	"churchmap/internal/dataset"
	"churchmap/internal/repository"
	"churchmap/internal/repository/boltstore"
	"churchmap/internal/repository/jsonfile"
	"churchmap/internal/services"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the church directory HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "fill an empty store with the bundled dataset")
	return cmd
}

func openStore(cfg config.StoreConfig) (repository.ChurchRepository, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	switch cfg.Driver {
	case config.StoreDriverBolt:
		return boltstore.Open(cfg.Path)
	case config.StoreDriverJSON:
		return jsonfile.New(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func runServe(cmd *cobra.Command, seed bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	churchService := services.NewChurchService(store, log)
	if seed {
		if err := seedStore(ctx, churchService, store, log); err != nil {
			return err
		}
	}

	churchHandler := handlers.NewChurchHandler(churchService)
	router := api.NewRouter(churchHandler, cfg.Server.AdminToken, log)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	router.Setup(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", "addr", cfg.Server.Port, "store", cfg.Store.Driver, "path", cfg.Store.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// seedStore copies the bundled dataset into an empty store, keeping the
// dataset's own identities.
func seedStore(ctx context.Context, svc *services.ChurchService, store repository.ChurchRepository, log *slog.Logger) error {
	existing, err := svc.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("seed_skipped", "count", len(existing))
		return nil
	}
	churches, err := dataset.Decode(dataset.Bundled())
	if err != nil {
		return err
	}
	if err := store.Save(ctx, churches); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}
	log.Info("store_seeded", "count", len(churches))
	return nil
}
