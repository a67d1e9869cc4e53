package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
	"churchmap/pkg/utils"
)

// RemoteIDPrefix marks identities minted by the directory server.
const RemoteIDPrefix = "real"

// ChurchService is the server side of the directory: what `churchmap serve`
// exposes over HTTP. Every call reads the stored list, and every mutation
// writes the whole list back, so the store stays the single source of truth.
//
// Unlike the offline directory, updates and deletes of unknown identities
// fail with repository.ErrNotFound.
type ChurchService struct {
	repo   repository.ChurchRepository
	newID  func() string
	logger *slog.Logger

	// mu serializes read-modify-write cycles against repo.
	mu sync.Mutex
}

func NewChurchService(repo repository.ChurchRepository, logger *slog.Logger) *ChurchService {
	return &ChurchService{
		repo:   repo,
		newID:  func() string { return utils.GeneratePrefixedID(RemoteIDPrefix) },
		logger: logger,
	}
}

// List filters, sorts and paginates. Without a sort key the stored order is
// kept.
func (s *ChurchService) List(ctx context.Context, opts listing.Options) (listing.Page, error) {
	churches, err := s.ListAll(ctx)
	if err != nil {
		return listing.Page{}, err
	}
	return listing.Apply(churches, opts), nil
}

// ListAll returns the stored list.
func (s *ChurchService) ListAll(ctx context.Context) ([]entities.Church, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ChurchService) Create(ctx context.Context, church entities.Church) (entities.Church, error) {
	created := church.WithID(s.newID())
	err := s.modify(ctx, "create", func(old []entities.Church) ([]entities.Church, error) {
		return append([]entities.Church{created}, old...), nil
	})
	if err != nil {
		return entities.Church{}, err
	}
	return created, nil
}

func (s *ChurchService) Update(ctx context.Context, id string, church entities.Church) (entities.Church, error) {
	updated := church.WithID(id)
	err := s.modify(ctx, "update", func(old []entities.Church) ([]entities.Church, error) {
		for i, c := range old {
			if c.ID == id {
				next := append([]entities.Church(nil), old...)
				next[i] = updated
				return next, nil
			}
		}
		return nil, fmt.Errorf("church %s: %w", id, repository.ErrNotFound)
	})
	if err != nil {
		return entities.Church{}, err
	}
	return updated, nil
}

func (s *ChurchService) Delete(ctx context.Context, id string) error {
	return s.modify(ctx, "delete", func(old []entities.Church) ([]entities.Church, error) {
		next := make([]entities.Church, 0, len(old))
		for _, c := range old {
			if c.ID != id {
				next = append(next, c)
			}
		}
		if len(next) == len(old) {
			return nil, fmt.Errorf("church %s: %w", id, repository.ErrNotFound)
		}
		return next, nil
	})
}

// BulkCreate gives every church a fresh identity and prepends them in
// document order.
func (s *ChurchService) BulkCreate(ctx context.Context, churches []entities.Church) (int, error) {
	created := make([]entities.Church, len(churches))
	for i, c := range churches {
		created[i] = c.WithID(s.newID())
	}
	err := s.modify(ctx, "bulk_create", func(old []entities.Church) ([]entities.Church, error) {
		return append(created, old...), nil
	})
	if err != nil {
		return 0, err
	}
	return len(created), nil
}

func (s *ChurchService) load(ctx context.Context) ([]entities.Church, error) {
	churches, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading churches: %w", err)
	}
	return churches, nil
}

func (s *ChurchService) modify(ctx context.Context, op string, fn func([]entities.Church) ([]entities.Church, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(old)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving churches: %w", err)
	}
	s.logger.Info("directory_changed", "op", op, "count", len(next))
	return nil
}
