package repository

import (
	"context"

	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
)

// ChurchSource is the query/mutation contract shared by the offline
// directory and the remote endpoint client. The data-access service holds one
// of each and decides which answers a given call.
type ChurchSource interface {
	List(ctx context.Context, opts listing.Options) (listing.Page, error)
	ListAll(ctx context.Context) ([]entities.Church, error)
	Create(ctx context.Context, church entities.Church) (entities.Church, error)
	Update(ctx context.Context, id string, church entities.Church) (entities.Church, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, churches []entities.Church) (int, error)
}

// ChurchRepository persists the whole directory for the reference backend.
// Stores load and save the full list at once; the list is small.
type ChurchRepository interface {
	Load(ctx context.Context) ([]entities.Church, error)
	Save(ctx context.Context, churches []entities.Church) error
	Close() error
}
