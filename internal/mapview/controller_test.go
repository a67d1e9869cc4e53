package mapview

import (
	"context"
	"testing"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geolocation"
	"churchmap/internal/logger"
)

var testOptions = Options{FirstFixZoom: 15, SelectZoom: 16, FitMaxZoom: 16, FitPadding: 50}

func testChurches() []entities.Church {
	return []entities.Church{
		{ID: "1", Name: "Tan Dinh", Lat: 10.7887, Lng: 106.6905},
		{ID: "2", Name: "Duc Ba", Lat: 10.7798, Lng: 106.6990},
		{ID: "3", Name: "Cho Quan", Lat: 10.7540, Lng: 106.6810},
	}
}

func setupController(t *testing.T) (*Controller, *Recorder, *geolocation.Feed) {
	t.Helper()
	rec := NewRecorder(entities.DefaultMapCenter, 13, 1024, 768)
	feed := geolocation.NewFeed()
	ctrl := NewController(rec, feed, testOptions, logger.Discard())
	t.Cleanup(ctrl.Close)
	return ctrl, rec, feed
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for condition")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestController_FirstLoadDoesNotMoveCamera(t *testing.T) {
	ctrl, rec, _ := setupController(t)

	ctrl.SetResults(testChurches())
	if moves := rec.Moves(); len(moves) != 0 {
		t.Fatalf("Expected no camera move on first load, got %v", moves)
	}

	ctrl.SetResults(testChurches()[:2])
	moves := rec.Moves()
	if len(moves) != 1 || moves[0].Kind != MoveFit {
		t.Fatalf("Expected one fit, got %v", moves)
	}
	if moves[0].Zoom > testOptions.FitMaxZoom {
		t.Errorf("Fit zoom %d exceeds cap", moves[0].Zoom)
	}

	ctrl.ResetInitialLoad()
	ctrl.SetResults(testChurches())
	if len(rec.Moves()) != 1 {
		t.Error("Expected a reset first load not to move the camera")
	}
}

func TestController_SingleResultFitIsCapped(t *testing.T) {
	ctrl, rec, _ := setupController(t)
	ctrl.SetResults(nil)

	ctrl.SetResults(testChurches()[:1])
	moves := rec.Moves()
	if len(moves) != 1 || moves[0].Zoom != testOptions.FitMaxZoom {
		t.Errorf("Expected a fit at the max zoom, got %v", moves)
	}
}

func TestController_EmptyResultsDoNotFit(t *testing.T) {
	ctrl, rec, _ := setupController(t)
	ctrl.SetResults(testChurches())
	ctrl.SetResults(nil)

	if moves := rec.Moves(); len(moves) != 0 {
		t.Errorf("Expected no move for an empty result set, got %v", moves)
	}
}

func TestController_SelectedAboveClusters(t *testing.T) {
	ctrl, rec, _ := setupController(t)
	ctrl.SetResults(testChurches())

	if !ctrl.Select("2") {
		t.Fatal("Expected church 2 to be found")
	}

	layers := rec.Layers()
	if len(layers) != 2 {
		t.Fatalf("Expected a cluster group and a selected marker, got %v", layers)
	}
	group, ok := layers[0].(*ClusterGroup)
	if !ok {
		t.Fatalf("Expected the cluster group at the bottom, got %T", layers[0])
	}
	if group.Has("2") || len(group.Markers()) != 2 {
		t.Error("Expected the selected church outside the cluster group")
	}
	marker, ok := layers[1].(*Marker)
	if !ok || marker.ID != "2" || marker.Style != StyleSelected {
		t.Errorf("Expected the selected marker on top, got %v", layers[1])
	}

	moves := rec.Moves()
	if len(moves) != 1 || moves[0].Kind != MoveFlyTo || moves[0].Zoom != testOptions.SelectZoom {
		t.Errorf("Expected a fly-to at the select zoom, got %v", moves)
	}

	// No fit while something is selected.
	ctrl.SetResults(testChurches())
	if len(rec.Moves()) != 1 {
		t.Error("Expected no fit while a church is selected")
	}

	ctrl.ClearSelection()
	layers = rec.Layers()
	if len(layers) != 1 || !layers[0].(*ClusterGroup).Has("2") {
		t.Errorf("Expected church 2 back in the cluster group, got %v", layers)
	}
}

func TestController_RepeatedUpdatesLeaveNoOrphans(t *testing.T) {
	ctrl, rec, _ := setupController(t)

	for i := 0; i < 5; i++ {
		ctrl.SetResults(testChurches())
		ctrl.Select("1")
		ctrl.Select("3")
	}
	if layers := rec.Layers(); len(layers) != 2 {
		t.Errorf("Expected exactly two layers, got %d", len(layers))
	}

	ctrl.Close()
	if layers := rec.Layers(); len(layers) != 0 {
		t.Errorf("Expected Close to remove every layer, got %v", layers)
	}
}

func TestController_FirstFixCentersOnce(t *testing.T) {
	ctrl, rec, feed := setupController(t)
	ctrl.Start(context.Background())
	waitFor(t, func() bool { return feed.Watchers() == 1 })

	first := entities.NewLocation(10.80, 106.70)
	feed.Push(first)
	waitFor(t, func() bool { return len(rec.Moves()) == 1 })

	move := rec.Moves()[0]
	if move.Center != first || move.Zoom != testOptions.FirstFixZoom {
		t.Errorf("Expected a fly to the first fix, got %+v", move)
	}

	second := entities.NewLocation(10.81, 106.71)
	feed.Push(second)
	waitFor(t, func() bool {
		for _, l := range rec.Layers() {
			if m, ok := l.(*Marker); ok && m.Style == StyleUser && m.Position == second {
				return true
			}
		}
		return false
	})
	if len(rec.Moves()) != 1 {
		t.Errorf("Expected later fixes not to move the camera, got %v", rec.Moves())
	}

	if !ctrl.Recenter() {
		t.Fatal("Expected Recenter to succeed after a fix")
	}
	if last := rec.Moves()[1]; last.Center != second {
		t.Errorf("Expected recenter on the latest fix, got %+v", last)
	}
}

func TestController_FitIncludesUser(t *testing.T) {
	ctrl, rec, feed := setupController(t)
	ctrl.Start(context.Background())
	waitFor(t, func() bool { return feed.Watchers() == 1 })

	feed.Push(entities.NewLocation(10.90, 106.60))
	waitFor(t, func() bool { return len(rec.Moves()) == 1 })

	ctrl.SetResults(nil)
	ctrl.SetResults(testChurches()[:1])

	moves := rec.Moves()
	if len(moves) != 2 || moves[1].Kind != MoveFit {
		t.Fatalf("Expected a fit, got %v", moves)
	}
	if moves[1].Center.Latitude <= testChurches()[0].Lat {
		t.Errorf("Expected the fit to be pulled toward the user, got %+v", moves[1].Center)
	}
}

func TestController_CloseReleasesSubscription(t *testing.T) {
	ctrl, _, feed := setupController(t)
	ctrl.Start(context.Background())
	waitFor(t, func() bool { return feed.Watchers() == 1 })

	ctrl.Close()
	waitFor(t, func() bool { return feed.Watchers() == 0 })
}
