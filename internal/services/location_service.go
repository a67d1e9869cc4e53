package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geolocation"
)

// LocationService keeps the device's latest known position. It consumes a
// platform stream with Track and re-publishes it, so the search engine can
// ask "where is the user?" and the map can watch the same fixes.
//
// LocationService is itself a geolocation.Source.
type LocationService struct {
	mu        sync.RWMutex
	position  entities.Location
	known     bool
	updatedAt time.Time
	lastErr   error

	feed   *geolocation.Feed
	logger *slog.Logger
}

func NewLocationService(logger *slog.Logger) *LocationService {
	return &LocationService{
		feed:   geolocation.NewFeed(),
		logger: logger,
	}
}

// Position returns the latest fix, or false before the first one.
func (s *LocationService) Position() (entities.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position, s.known
}

// LastError is the most recent stream error, cleared by the next fix.
func (s *LocationService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// UpdatePosition records a fix. Each fix supersedes the previous one.
func (s *LocationService) UpdatePosition(pos entities.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	s.known = true
	s.updatedAt = time.Now()
	s.lastErr = nil
	s.feed.Push(pos)
}

func (s *LocationService) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()

	s.logger.Warn("geolocation_error", "err", err)
	s.feed.Fail(err)
}

// Close ends every watcher's stream.
func (s *LocationService) Close() {
	s.feed.Close()
}

// Track consumes source until ctx ends or the stream closes. Errors leave
// the last known position in place.
func (s *LocationService) Track(ctx context.Context, source geolocation.Source) {
	for u := range source.Watch(ctx) {
		if u.Err != nil {
			s.recordError(u.Err)
			continue
		}
		s.UpdatePosition(u.Position)
	}
}

// Watch implements geolocation.Source. A watcher that joins after the first
// fix immediately receives the current position.
func (s *LocationService) Watch(ctx context.Context) <-chan geolocation.Update {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.known {
		return s.feed.WatchFrom(ctx, geolocation.Update{Position: s.position, At: s.updatedAt})
	}
	return s.feed.Watch(ctx)
}
