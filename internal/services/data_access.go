package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"churchmap/internal/config"
	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
	"churchmap/internal/repository/memory"
	"churchmap/internal/repository/remote"
)

// DataAccessService is the single entry point for church data. It routes
// every call to the remote endpoint when one is configured and falls back to
// the offline directory when the endpoint cannot be reached.
//
// Reads that fail for network reasons are answered from the offline
// directory and switch the mode to degraded-fallback. Writes that fail for
// network reasons also switch to degraded-fallback but return the error: a
// write the endpoint never saw is not silently kept on this device.
// Successful remote writes are mirrored into the offline directory so a
// later fallback shows them.
//
// DataAccessService satisfies repository.ChurchSource, so callers do not
// need to know which source answered.
type DataAccessService struct {
	offline *memory.DirectoryStore
	mode    *ModeBroadcaster
	cfg     config.RemoteConfig
	logger  *slog.Logger

	mu     sync.RWMutex
	remote repository.ChurchSource
}

// NewDataAccessService builds the supervisor. The initial mode is
// remote-active when cfg names an endpoint and offline-dataset otherwise.
func NewDataAccessService(offline *memory.DirectoryStore, cfg config.RemoteConfig, logger *slog.Logger) *DataAccessService {
	s := &DataAccessService{
		offline: offline,
		cfg:     cfg,
		logger:  logger,
		mode:    NewModeBroadcaster(ModeOfflineDataset),
	}
	if cfg.BaseURL != "" {
		s.remote = remote.NewClient(cfg.BaseURL, cfg.Token, cfg.Timeout)
		s.mode = NewModeBroadcaster(ModeRemoteActive)
	}
	return s
}

// Configure points the service at a different endpoint, reusing the
// configured token and timeout. An empty baseURL switches to offline-only.
func (s *DataAccessService) Configure(baseURL string) {
	if baseURL == "" {
		s.UseRemote(nil)
		return
	}
	s.UseRemote(remote.NewClient(baseURL, s.cfg.Token, s.cfg.Timeout))
}

// UseRemote installs src as the remote source. A nil src means none; the
// mode then becomes offline-dataset. Installing a source does not change the
// mode until the next call proves it reachable.
func (s *DataAccessService) UseRemote(src repository.ChurchSource) {
	s.mu.Lock()
	s.remote = src
	s.mu.Unlock()

	if src == nil {
		s.transition(ModeOfflineDataset, "remote_removed", nil)
	}
}

// RemoteConfigured reports whether an endpoint is installed.
func (s *DataAccessService) RemoteConfigured() bool {
	return s.currentRemote() != nil
}

// Mode returns the current data mode.
func (s *DataAccessService) Mode() Mode {
	return s.mode.Mode()
}

// Subscribe registers fn for mode transitions.
func (s *DataAccessService) Subscribe(fn func(Mode)) (unsubscribe func()) {
	return s.mode.Subscribe(fn)
}

// Offline exposes the offline directory.
func (s *DataAccessService) Offline() *memory.DirectoryStore {
	return s.offline
}

func (s *DataAccessService) currentRemote() repository.ChurchSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remote
}

func (s *DataAccessService) transition(m Mode, op string, cause error) {
	if !s.mode.set(m) {
		return
	}
	attrs := []any{"mode", string(m), "op", op}
	if cause != nil {
		attrs = append(attrs, "error", cause)
		s.logger.Warn("data_mode_changed", attrs...)
		return
	}
	s.logger.Info("data_mode_changed", attrs...)
}

// read runs a read against the remote source and falls back to the offline
// directory when it is unreachable.
//
// Go Learning Note — Generic Helpers:
// Methods cannot take type parameters, but package-level functions can. A
// generic helper lets every read share one fallback policy whatever it
// returns.
func read[T any](s *DataAccessService, op string,
	fromRemote func(repository.ChurchSource) (T, error), fromOffline func() (T, error)) (T, error) {

	src := s.currentRemote()
	if src == nil {
		s.transition(ModeOfflineDataset, op, nil)
		return fromOffline()
	}

	v, err := fromRemote(src)
	switch {
	case err == nil:
		s.transition(ModeRemoteActive, op, nil)
		return v, nil
	case errors.Is(err, repository.ErrNetworkUnavailable):
		s.transition(ModeDegradedFallback, op, err)
		return fromOffline()
	default:
		var zero T
		return zero, err
	}
}

// write runs a mutation against the remote source. It never falls back:
// a network failure degrades the mode and is returned to the caller.
func write[T any](s *DataAccessService, op string,
	toRemote func(repository.ChurchSource) (T, error), toOffline func() (T, error), mirror func(T)) (T, error) {

	src := s.currentRemote()
	if src == nil {
		s.transition(ModeOfflineDataset, op, nil)
		return toOffline()
	}

	v, err := toRemote(src)
	switch {
	case err == nil:
		s.transition(ModeRemoteActive, op, nil)
		if mirror != nil {
			mirror(v)
		}
		return v, nil
	case errors.Is(err, repository.ErrNetworkUnavailable):
		s.transition(ModeDegradedFallback, op, err)
	}
	var zero T
	return zero, err
}

// List answers a paginated query. An unknown sort key is the caller's
// mistake, not the network's, so it is rejected before either source sees it.
func (s *DataAccessService) List(ctx context.Context, opts listing.Options) (listing.Page, error) {
	if !opts.SortKey.Valid() {
		return listing.Page{}, fmt.Errorf("list: unknown sort key %q: %w", opts.SortKey, repository.ErrMalformedInput)
	}
	return read(s, "list",
		func(src repository.ChurchSource) (listing.Page, error) { return src.List(ctx, opts) },
		func() (listing.Page, error) { return s.offline.List(ctx, opts) })
}

// ListAll returns every church.
func (s *DataAccessService) ListAll(ctx context.Context) ([]entities.Church, error) {
	return read(s, "list_all",
		func(src repository.ChurchSource) ([]entities.Church, error) { return src.ListAll(ctx) },
		func() ([]entities.Church, error) { return s.offline.ListAll(ctx) })
}

// Create stores a new church and returns it with its assigned identity.
func (s *DataAccessService) Create(ctx context.Context, church entities.Church) (entities.Church, error) {
	return write(s, "create",
		func(src repository.ChurchSource) (entities.Church, error) { return src.Create(ctx, church) },
		func() (entities.Church, error) { return s.offline.Create(ctx, church) },
		s.offline.MirrorUpsert)
}

// Update replaces the church with the given identity. The "new" sentinel is
// not an identity and is rejected.
func (s *DataAccessService) Update(ctx context.Context, id string, church entities.Church) (entities.Church, error) {
	if id == "" || id == entities.NewChurchID {
		return entities.Church{}, fmt.Errorf("update %q: %w", id, repository.ErrMalformedInput)
	}
	return write(s, "update",
		func(src repository.ChurchSource) (entities.Church, error) { return src.Update(ctx, id, church) },
		func() (entities.Church, error) { return s.offline.Update(ctx, id, church) },
		s.offline.MirrorUpsert)
}

// Delete removes the church with the given identity.
func (s *DataAccessService) Delete(ctx context.Context, id string) error {
	_, err := write(s, "delete",
		func(src repository.ChurchSource) (struct{}, error) { return struct{}{}, src.Delete(ctx, id) },
		func() (struct{}, error) { return struct{}{}, s.offline.Delete(ctx, id) },
		func(struct{}) { s.offline.MirrorDelete(id) })
	return err
}

// BulkCreate stores many churches at once and returns how many were kept.
// The remote endpoint does not return the identities it assigned, so a
// remote bulk import is not mirrored offline.
func (s *DataAccessService) BulkCreate(ctx context.Context, churches []entities.Church) (int, error) {
	return write(s, "bulk_create",
		func(src repository.ChurchSource) (int, error) { return src.BulkCreate(ctx, churches) },
		func() (int, error) { return s.offline.BulkCreate(ctx, churches) },
		nil)
}
