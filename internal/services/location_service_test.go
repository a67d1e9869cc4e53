package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geolocation"
	"churchmap/internal/logger"
)

func TestLocationService_UnknownUntilFirstFix(t *testing.T) {
	svc := NewLocationService(logger.Discard())
	if _, ok := svc.Position(); ok {
		t.Error("Expected no position before the first fix")
	}

	svc.UpdatePosition(entities.NewLocation(10, 106))
	svc.UpdatePosition(entities.NewLocation(10.5, 106.5))

	pos, ok := svc.Position()
	if !ok || pos.Latitude != 10.5 {
		t.Errorf("Expected the latest fix, got %v (%v)", pos, ok)
	}
}

func TestLocationService_TrackKeepsLastFixOnError(t *testing.T) {
	svc := NewLocationService(logger.Discard())
	feed := geolocation.NewFeed()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.Track(ctx, feed)
		close(done)
	}()
	waitFor(t, func() bool { return feed.Watchers() == 1 })

	feed.Push(entities.NewLocation(10, 106))
	waitFor(t, func() bool { _, ok := svc.Position(); return ok })

	feed.Fail(geolocation.ErrPermissionDenied)
	waitFor(t, func() bool { return svc.LastError() != nil })

	if !errors.Is(svc.LastError(), geolocation.ErrPermissionDenied) {
		t.Errorf("Expected permission error, got %v", svc.LastError())
	}
	if pos, ok := svc.Position(); !ok || pos.Latitude != 10 {
		t.Errorf("Expected the last fix to survive an error, got %v (%v)", pos, ok)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track did not return after cancel")
	}
}

func TestLocationService_LateWatcherGetsCurrentFix(t *testing.T) {
	svc := NewLocationService(logger.Discard())
	svc.UpdatePosition(entities.NewLocation(10, 106))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	select {
	case u := <-svc.Watch(ctx):
		if u.Position.Latitude != 10 {
			t.Errorf("Unexpected replay %+v", u)
		}
	case <-time.After(time.Second):
		t.Fatal("late watcher got nothing")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
