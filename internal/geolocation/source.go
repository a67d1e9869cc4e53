// Package geolocation models the platform position stream: a source of
// device fixes that may be denied or unavailable.
package geolocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"churchmap/internal/domain/entities"
)

var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("geolocation unavailable")
)

// Update is one event on a position stream: a fix, or an error.
type Update struct {
	Position entities.Location
	Accuracy float64 // meters, 0 when unknown
	At       time.Time
	Err      error
}

// Source produces a stream of updates until ctx is done, then closes it.
//
// Streams are latest-only: a consumer that falls behind sees the newest
// update, never a backlog.
type Source interface {
	Watch(ctx context.Context) <-chan Update
}

// Offer delivers u on a capacity-1 channel, replacing an unread update.
// Only the producer of ch may call it.
func Offer(ch chan Update, u Update) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Static reports one fixed position. It stands in for a device when the
// position is given on the command line.
type Static struct {
	Position entities.Location
}

// Watch emits the position once and closes the stream when ctx ends.
func (s Static) Watch(ctx context.Context) <-chan Update {
	ch := make(chan Update, 1)
	ch <- Update{Position: s.Position, At: time.Now()}
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

// Feed is a push-driven Source: whoever owns it calls Push or Fail and every
// active watcher receives the update.
type Feed struct {
	mu       sync.Mutex
	watchers map[chan Update]struct{}
	closed   bool
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{watchers: make(map[chan Update]struct{})}
}

// Watch registers a watcher until ctx is done.
func (f *Feed) Watch(ctx context.Context) <-chan Update {
	return f.watch(ctx, nil)
}

// WatchFrom is Watch with a first update queued before any pushed one.
func (f *Feed) WatchFrom(ctx context.Context, initial Update) <-chan Update {
	return f.watch(ctx, &initial)
}

func (f *Feed) watch(ctx context.Context, initial *Update) <-chan Update {
	ch := make(chan Update, 1)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch
	}
	if initial != nil {
		ch <- *initial
	}
	f.watchers[ch] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.watchers[ch]; ok {
			delete(f.watchers, ch)
			close(ch)
		}
	}()
	return ch
}

// Push publishes a position fix.
func (f *Feed) Push(pos entities.Location) {
	f.publish(Update{Position: pos, At: time.Now()})
}

// Fail publishes an error such as ErrPermissionDenied.
func (f *Feed) Fail(err error) {
	f.publish(Update{Err: err, At: time.Now()})
}

// Watchers is the number of live watchers.
func (f *Feed) Watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

// Close ends every stream.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for ch := range f.watchers {
		delete(f.watchers, ch)
		close(ch)
	}
}

func (f *Feed) publish(u Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.watchers {
		Offer(ch, u)
	}
}
