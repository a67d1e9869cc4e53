package services

import (
	"context"
	"sync"
	"time"
)

// DefaultTextDebounce is the quiet period after the last keystroke.
const DefaultTextDebounce = 300 * time.Millisecond

// TextQuery runs text searches as the user types. Each Update restarts a
// quiet-period timer; only the most recent term is searched, and only its
// result is delivered even if an older search is still running.
//
// Go Learning Note — Generation Counters:
// time.AfterFunc callbacks and in-flight searches cannot be recalled once
// started. Tagging each with the generation it belongs to, and checking
// that tag under the mutex before delivering, makes stale work harmless.
type TextQuery struct {
	search  *SearchService
	delay   time.Duration
	deliver func(*Result, error)

	mu      sync.Mutex
	gen     uint64
	timer   *time.Timer
	cancel  context.CancelFunc
	stopped bool
}

// NewTextQuery delivers each settled result to deliver, which runs on a
// timer goroutine with the query locked, so it must not call Update or Stop.
// A non-positive delay uses DefaultTextDebounce.
func NewTextQuery(search *SearchService, delay time.Duration, deliver func(*Result, error)) *TextQuery {
	if delay <= 0 {
		delay = DefaultTextDebounce
	}
	return &TextQuery{search: search, delay: delay, deliver: deliver}
}

// Update supersedes any pending or running search with term.
func (q *TextQuery) Update(term string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}

	q.supersede()
	gen := q.gen
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	q.timer = time.AfterFunc(q.delay, func() { q.run(ctx, gen, term) })
}

// Stop cancels pending work. Nothing is delivered after Stop returns.
func (q *TextQuery) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.supersede()
	q.stopped = true
}

// supersede invalidates the current generation. Callers hold q.mu.
func (q *TextQuery) supersede() {
	q.gen++
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

func (q *TextQuery) run(ctx context.Context, gen uint64, term string) {
	result, err := q.search.Search(ctx, Matching(term))

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.gen {
		return
	}
	q.deliver(result, err)
}
