package mapview

import (
	"sort"
	"strconv"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geo"
)

// ClusterGroup is one layer holding many church markers, drawn as clusters
// at low zoom.
type ClusterGroup struct {
	id      string
	markers []*Marker
}

// NewClusterGroup wraps markers. The group keeps the slice as given.
func NewClusterGroup(id string, markers []*Marker) *ClusterGroup {
	return &ClusterGroup{id: id, markers: markers}
}

func (g *ClusterGroup) LayerID() string { return "clusters:" + g.id }

// Markers returns the group's markers.
func (g *ClusterGroup) Markers() []*Marker { return g.markers }

// Has reports whether a marker for id is in the group.
func (g *ClusterGroup) Has(id string) bool {
	for _, m := range g.markers {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Cluster is a set of nearby markers drawn as one bubble.
type Cluster struct {
	Cell   string
	Center entities.Location
	IDs    []string
}

// Count is the number shown on the bubble.
func (c Cluster) Count() int { return len(c.IDs) }

// Label is the bubble text: the count, or empty for a lone marker.
func (c Cluster) Label() string {
	if len(c.IDs) < 2 {
		return ""
	}
	return strconv.Itoa(len(c.IDs))
}

// Clusters groups the markers by geohash cell at a precision that follows
// zoom, so clusters split apart as the map zooms in. Each cluster sits at
// the mean of its members. Clusters are ordered by cell.
func (g *ClusterGroup) Clusters(zoom int) []Cluster {
	precision := geo.PrecisionForZoom(zoom)

	byCell := make(map[string]*Cluster)
	sums := make(map[string][2]float64)
	for _, m := range g.markers {
		cell := geo.Encode(m.Position.Latitude, m.Position.Longitude, precision)
		c, ok := byCell[cell]
		if !ok {
			c = &Cluster{Cell: cell}
			byCell[cell] = c
		}
		c.IDs = append(c.IDs, m.ID)
		s := sums[cell]
		sums[cell] = [2]float64{s[0] + m.Position.Latitude, s[1] + m.Position.Longitude}
	}

	out := make([]Cluster, 0, len(byCell))
	for cell, c := range byCell {
		n := float64(len(c.IDs))
		s := sums[cell]
		c.Center = entities.NewLocation(s[0]/n, s[1]/n)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell < out[j].Cell })
	return out
}
