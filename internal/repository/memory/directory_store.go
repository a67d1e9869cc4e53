package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"churchmap/internal/dataset"
	"churchmap/internal/domain/entities"
	"churchmap/internal/listing"
	"churchmap/pkg/utils"
)

// LocalIDPrefix marks identities minted by the offline directory.
const LocalIDPrefix = "local"

// DirectoryStore owns the offline working set: the bundled (or configured)
// dataset, loaded lazily on first use and then kept for the life of the store.
//
// The list is copy-on-write. Readers get the current snapshot by reference
// and may keep iterating it after a mutation; writers build a new slice and
// swap the pointer, so nobody ever sees a half-applied edit.
//
// Go Learning Note — atomic.Pointer:
// atomic.Pointer[T] (Go 1.19+) gives lock-free loads of a shared pointer.
// Combined with a writer mutex it is the usual shape for "many readers, rare
// writers, readers must never block".
type DirectoryStore struct {
	load    dataset.Loader
	latency time.Duration
	newID   func() string

	loadMu   sync.Mutex // serializes the first load
	writeMu  sync.Mutex // serializes mutations
	snapshot atomic.Pointer[[]entities.Church]
	loads    atomic.Int32
}

// Option tweaks a DirectoryStore.
type Option func(*DirectoryStore)

// WithLatency delays every call, the way the offline mode simulates a server
// round trip. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *DirectoryStore) { s.latency = d }
}

// WithIDGenerator replaces identity generation (tests use a counter).
func WithIDGenerator(fn func() string) Option {
	return func(s *DirectoryStore) { s.newID = fn }
}

// NewDirectoryStore creates a store that reads its data through load.
func NewDirectoryStore(load dataset.Loader, opts ...Option) *DirectoryStore {
	s := &DirectoryStore{
		load:  load,
		newID: func() string { return utils.GeneratePrefixedID(LocalIDPrefix) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Loaded reports whether the dataset has been read successfully.
func (s *DirectoryStore) Loaded() bool {
	return s.snapshot.Load() != nil
}

// LoadCount is how many times the loader actually ran to completion.
func (s *DirectoryStore) LoadCount() int {
	return int(s.loads.Load())
}

// churches returns the current snapshot, loading it on first use. A failed
// load is not remembered; the next call tries again.
func (s *DirectoryStore) churches() ([]entities.Church, error) {
	if p := s.snapshot.Load(); p != nil {
		return *p, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if p := s.snapshot.Load(); p != nil {
		return *p, nil
	}

	data, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("loading offline directory: %w", err)
	}
	churches, err := dataset.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading offline directory: %w", err)
	}
	s.loads.Add(1)
	s.snapshot.Store(&churches)
	return churches, nil
}

// mutate applies fn to the current list under the writer lock and publishes
// its result. fn must return a new slice, never edit old.
func (s *DirectoryStore) mutate(fn func(old []entities.Church) []entities.Church) error {
	if _, err := s.churches(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next := fn(*s.snapshot.Load())
	s.snapshot.Store(&next)
	return nil
}

// mirror is mutate for a store that has not been loaded yet: there is
// nothing to keep consistent, so it does nothing.
func (s *DirectoryStore) mirror(fn func(old []entities.Church) []entities.Church) {
	if !s.Loaded() {
		return
	}
	_ = s.mutate(fn)
}

func (s *DirectoryStore) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List answers a paginated query. Without a sort key it sorts by name
// ascending, matching the offline defaults.
func (s *DirectoryStore) List(ctx context.Context, opts listing.Options) (listing.Page, error) {
	if err := s.wait(ctx, s.latency); err != nil {
		return listing.Page{}, err
	}
	churches, err := s.churches()
	if err != nil {
		return listing.Page{}, err
	}
	if opts.SortKey == "" {
		opts.SortKey = entities.SortByName
		opts.SortDirection = listing.Ascending
	}
	return listing.Apply(churches, opts), nil
}

// ListAll returns the whole working set in insertion order. The slice is
// shared: callers must treat it as read-only.
func (s *DirectoryStore) ListAll(ctx context.Context) ([]entities.Church, error) {
	if err := s.wait(ctx, s.latency); err != nil {
		return nil, err
	}
	return s.churches()
}

// Create assigns a fresh identity and prepends the church.
func (s *DirectoryStore) Create(ctx context.Context, church entities.Church) (entities.Church, error) {
	if err := s.wait(ctx, s.latency); err != nil {
		return entities.Church{}, err
	}
	created := church.WithID(s.newID())
	err := s.mutate(func(old []entities.Church) []entities.Church {
		return prepend(old, created)
	})
	if err != nil {
		return entities.Church{}, err
	}
	return created, nil
}

// Update replaces the church with the given identity. An unknown identity is
// not an error offline; nothing changes.
func (s *DirectoryStore) Update(ctx context.Context, id string, church entities.Church) (entities.Church, error) {
	if err := s.wait(ctx, s.latency); err != nil {
		return entities.Church{}, err
	}
	updated := church.WithID(id)
	err := s.mutate(func(old []entities.Church) []entities.Church {
		return replace(old, updated)
	})
	if err != nil {
		return entities.Church{}, err
	}
	return updated, nil
}

// Delete removes the church with the given identity, if present.
func (s *DirectoryStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx, s.latency); err != nil {
		return err
	}
	return s.mutate(func(old []entities.Church) []entities.Church {
		return without(old, id)
	})
}

// BulkCreate assigns identities to every church and prepends them all,
// keeping their document order.
func (s *DirectoryStore) BulkCreate(ctx context.Context, churches []entities.Church) (int, error) {
	if err := s.wait(ctx, 2*s.latency); err != nil {
		return 0, err
	}
	created := make([]entities.Church, len(churches))
	for i, c := range churches {
		created[i] = c.WithID(s.newID())
	}
	err := s.mutate(func(old []entities.Church) []entities.Church {
		return prepend(old, created...)
	})
	if err != nil {
		return 0, err
	}
	return len(created), nil
}

// MirrorUpsert records a church the remote endpoint accepted: replaced in
// place when known, otherwise prepended. No-op before the first load.
func (s *DirectoryStore) MirrorUpsert(church entities.Church) {
	s.mirror(func(old []entities.Church) []entities.Church {
		if indexOf(old, church.ID) >= 0 {
			return replace(old, church)
		}
		return prepend(old, church)
	})
}

// MirrorDelete drops a church the remote endpoint deleted.
func (s *DirectoryStore) MirrorDelete(id string) {
	s.mirror(func(old []entities.Church) []entities.Church {
		return without(old, id)
	})
}

func prepend(old []entities.Church, front ...entities.Church) []entities.Church {
	next := make([]entities.Church, 0, len(front)+len(old))
	next = append(next, front...)
	return append(next, old...)
}

func replace(old []entities.Church, church entities.Church) []entities.Church {
	next := make([]entities.Church, len(old))
	copy(next, old)
	if i := indexOf(next, church.ID); i >= 0 {
		next[i] = church
	}
	return next
}

func without(old []entities.Church, id string) []entities.Church {
	next := make([]entities.Church, 0, len(old))
	for _, c := range old {
		if c.ID != id {
			next = append(next, c)
		}
	}
	return next
}

func indexOf(churches []entities.Church, id string) int {
	for i, c := range churches {
		if c.ID == id {
			return i
		}
	}
	return -1
}
