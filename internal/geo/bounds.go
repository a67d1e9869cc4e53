package geo

import (
	"math"

	"github.com/golang/geo/s2"

	"churchmap/internal/domain/entities"
)

// tileSize is the pixel width of one web-map tile at zoom 0.
const tileSize = 256.0

// Bounds is a latitude/longitude rectangle grown point by point. It wraps
// s2.Rect so longitude spans that cross the antimeridian stay correct.
type Bounds struct {
	rect s2.Rect
	n    int
}

// NewBounds returns bounds covering every given location.
func NewBounds(locs ...entities.Location) Bounds {
	var b Bounds
	for _, l := range locs {
		b = b.Extend(l)
	}
	return b
}

// Extend returns bounds that also cover l.
func (b Bounds) Extend(l entities.Location) Bounds {
	ll := s2.LatLngFromDegrees(l.Latitude, l.Longitude)
	if b.n == 0 {
		return Bounds{rect: s2.RectFromLatLng(ll), n: 1}
	}
	return Bounds{rect: b.rect.AddPoint(ll), n: b.n + 1}
}

// IsValid reports whether at least one point has been added.
func (b Bounds) IsValid() bool {
	return b.n > 0
}

// Center returns the middle of the rectangle.
func (b Bounds) Center() entities.Location {
	c := b.rect.Center()
	return entities.NewLocation(c.Lat.Degrees(), c.Lng.Degrees())
}

// SouthWest returns the low corner.
func (b Bounds) SouthWest() entities.Location {
	lo := b.rect.Lo()
	return entities.NewLocation(lo.Lat.Degrees(), lo.Lng.Degrees())
}

// NorthEast returns the high corner.
func (b Bounds) NorthEast() entities.Location {
	hi := b.rect.Hi()
	return entities.NewLocation(hi.Lat.Degrees(), hi.Lng.Degrees())
}

// Contains reports whether l lies inside the rectangle.
func (b Bounds) Contains(l entities.Location) bool {
	return b.rect.ContainsLatLng(s2.LatLngFromDegrees(l.Latitude, l.Longitude))
}

// ZoomToFit returns the largest integer zoom at which the rectangle, inset by
// padding pixels on every side, fits a width×height viewport, capped at
// maxZoom. A single point (zero span) yields maxZoom.
func (b Bounds) ZoomToFit(width, height, padding float64, maxZoom int) int {
	if !b.IsValid() {
		return 0
	}
	w := width - 2*padding
	h := height - 2*padding
	if w <= 0 || h <= 0 {
		return 0
	}

	lngFrac := b.rect.Lng.Length() / (2 * math.Pi)
	sw, ne := b.SouthWest(), b.NorthEast()
	latFrac := (mercatorY(ne.Latitude) - mercatorY(sw.Latitude)) / (2 * math.Pi)

	zoom := float64(maxZoom)
	if lngFrac > 0 {
		zoom = math.Min(zoom, math.Log2(w/tileSize/lngFrac))
	}
	if latFrac > 0 {
		zoom = math.Min(zoom, math.Log2(h/tileSize/latFrac))
	}
	if zoom < 0 {
		return 0
	}
	return int(math.Floor(zoom))
}

func mercatorY(latDeg float64) float64 {
	lat := latDeg * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4 + lat/2))
}
