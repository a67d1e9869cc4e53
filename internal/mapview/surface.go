// Package mapview keeps a map surface (markers, clusters, camera) in step
// with the search results, the selected church and the user's position.
//
// The map engine itself sits behind Surface. Recorder is an in-memory
// Surface used by tests and by the CLI's text rendering.
package mapview

import (
	"sync"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geo"
)

// Layer is anything that can be placed on a Surface. Layers are compared by
// identity, so implementations are pointers.
type Layer interface {
	LayerID() string
}

// MarkerStyle picks the marker's icon.
type MarkerStyle string

const (
	StyleChurch   MarkerStyle = "church"
	StyleSelected MarkerStyle = "selected"
	StyleUser     MarkerStyle = "user"
)

// Marker is a single pin.
type Marker struct {
	ID       string
	Title    string
	Position entities.Location
	Style    MarkerStyle
}

func (m *Marker) LayerID() string { return string(m.Style) + ":" + m.ID }

// FitOptions shape a fit-to-bounds camera move.
type FitOptions struct {
	Padding float64
	MaxZoom int
}

// Surface is the map engine.
type Surface interface {
	AddLayer(l Layer)
	RemoveLayer(l Layer)
	HasLayer(l Layer) bool
	FlyTo(center entities.Location, zoom int)
	FlyToBounds(b geo.Bounds, opts FitOptions)
}

// MoveKind tells a camera jump from a fit.
type MoveKind string

const (
	MoveFlyTo MoveKind = "fly-to"
	MoveFit   MoveKind = "fit-bounds"
)

// CameraMove is one recorded camera call and where the camera ended up.
type CameraMove struct {
	Kind   MoveKind
	Center entities.Location
	Zoom   int
}

// Recorder is a Surface that remembers its layers in stacking order and
// every camera move. Fits are resolved against a fixed viewport size.
type Recorder struct {
	mu     sync.Mutex
	layers []Layer
	moves  []CameraMove
	center entities.Location
	zoom   int
	width  float64
	height float64
}

// NewRecorder starts the camera at center and zoom over a width×height
// pixel viewport.
func NewRecorder(center entities.Location, zoom int, width, height float64) *Recorder {
	return &Recorder{center: center, zoom: zoom, width: width, height: height}
}

func (r *Recorder) AddLayer(l Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(l) < 0 {
		r.layers = append(r.layers, l)
	}
}

func (r *Recorder) RemoveLayer(l Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(l); i >= 0 {
		r.layers = append(r.layers[:i:i], r.layers[i+1:]...)
	}
}

func (r *Recorder) HasLayer(l Layer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(l) >= 0
}

func (r *Recorder) FlyTo(center entities.Location, zoom int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.center, r.zoom = center, zoom
	r.moves = append(r.moves, CameraMove{Kind: MoveFlyTo, Center: center, Zoom: zoom})
}

func (r *Recorder) FlyToBounds(b geo.Bounds, opts FitOptions) {
	if !b.IsValid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.center = b.Center()
	r.zoom = b.ZoomToFit(r.width, r.height, opts.Padding, opts.MaxZoom)
	r.moves = append(r.moves, CameraMove{Kind: MoveFit, Center: r.center, Zoom: r.zoom})
}

// Layers returns the live layers, bottom first.
func (r *Recorder) Layers() []Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Layer(nil), r.layers...)
}

// Moves returns every camera move so far.
func (r *Recorder) Moves() []CameraMove {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CameraMove(nil), r.moves...)
}

// Camera returns where the camera is now.
func (r *Recorder) Camera() (entities.Location, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.center, r.zoom
}

func (r *Recorder) indexOf(l Layer) int {
	for i, existing := range r.layers {
		if existing == l {
			return i
		}
	}
	return -1
}
