package mapview

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"churchmap/internal/config"
	"churchmap/internal/domain/entities"
	"churchmap/internal/geo"
	"churchmap/internal/geolocation"
)

const userMarkerID = "me"

// Options are the camera settings a Controller uses.
type Options struct {
	FirstFixZoom int
	SelectZoom   int
	FitMaxZoom   int
	FitPadding   float64
}

// OptionsFromConfig reads the camera settings from the map config.
func OptionsFromConfig(cfg config.MapConfig) Options {
	return Options{
		FirstFixZoom: cfg.FirstFixZoom,
		SelectZoom:   cfg.SelectZoom,
		FitMaxZoom:   cfg.FitMaxZoom,
		FitPadding:   cfg.FitPadding,
	}
}

// Controller drives a Surface from three inputs: the result set, the
// selected church and the user's position.
//
// The selected church is never clustered. It is drawn as its own marker
// above the cluster group so a cluster bubble cannot hide it.
//
// Camera rules:
//   - the first position fix centres the map once; later fixes only move the
//     user marker
//   - selecting a church flies to it
//   - a new result set, with nothing selected, fits every result plus the
//     user; the very first result set after start does not move the camera
type Controller struct {
	surface   Surface
	positions geolocation.Source
	opts      Options
	logger    *slog.Logger

	mu          sync.Mutex
	results     []entities.Church
	selectedID  string
	userPos     entities.Location
	hasUser     bool
	centered    bool
	initialLoad bool
	renders     int

	group    *ClusterGroup
	selected *Marker
	user     *Marker

	cancel context.CancelFunc
	done   chan struct{}
}

func NewController(surface Surface, positions geolocation.Source, opts Options, logger *slog.Logger) *Controller {
	return &Controller{
		surface:     surface,
		positions:   positions,
		opts:        opts,
		logger:      logger,
		initialLoad: true,
	}
}

// Start subscribes to position fixes until ctx ends or Close is called.
// Calling Start again while running does nothing.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	updates := c.positions.Watch(ctx)
	go func() {
		defer close(done)
		for u := range updates {
			if u.Err != nil {
				c.logger.Warn("map_position_error", "error", u.Err)
				continue
			}
			c.onFix(u.Position)
		}
	}()
}

// Close stops the position subscription and removes every layer the
// controller added.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLayers()
	if c.user != nil {
		c.surface.RemoveLayer(c.user)
		c.user = nil
	}
	c.cancel, c.done = nil, nil
}

func (c *Controller) onFix(pos entities.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.userPos, c.hasUser = pos, true
	if c.user != nil {
		c.surface.RemoveLayer(c.user)
	}
	c.user = &Marker{ID: userMarkerID, Title: "You are here", Position: pos, Style: StyleUser}
	c.surface.AddLayer(c.user)

	if !c.centered {
		c.centered = true
		c.surface.FlyTo(pos, c.opts.FirstFixZoom)
	}
}

// SetResults replaces the result set and redraws.
func (c *Controller) SetResults(churches []entities.Church) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = append([]entities.Church(nil), churches...)
	c.render()

	first := c.initialLoad
	c.initialLoad = false
	if first || c.selectedID != "" || len(c.results) == 0 {
		return
	}

	bounds := geo.NewBounds()
	for _, ch := range c.results {
		bounds = bounds.Extend(ch.Position())
	}
	if c.hasUser {
		bounds = bounds.Extend(c.userPos)
	}
	c.surface.FlyToBounds(bounds, FitOptions{Padding: c.opts.FitPadding, MaxZoom: c.opts.FitMaxZoom})
}

// ResetInitialLoad makes the next SetResults behave like the first one.
func (c *Controller) ResetInitialLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialLoad = true
}

// Select highlights the church with the given id and flies to it. It
// reports whether the church is in the current results.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selectedID = id
	c.render()

	church, ok := c.find(id)
	if ok {
		c.surface.FlyTo(church.Position(), c.opts.SelectZoom)
	}
	return ok
}

// ClearSelection puts the selected church back among the clusters.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedID = ""
	c.render()
}

// Selected returns the selected id, if any.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedID
}

// Recenter flies to the user. It reports false before the first fix.
func (c *Controller) Recenter() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasUser {
		return false
	}
	c.surface.FlyTo(c.userPos, c.opts.SelectZoom)
	return true
}

// ClusterGroup returns the group currently on the surface, or nil.
func (c *Controller) ClusterGroup() *ClusterGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group
}

// render swaps the previous cluster group and selected marker for new ones.
// Callers hold c.mu.
func (c *Controller) render() {
	c.clearLayers()
	c.renders++

	markers := make([]*Marker, 0, len(c.results))
	var selected *Marker
	for _, ch := range c.results {
		m := &Marker{ID: ch.ID, Title: ch.Name, Position: ch.Position(), Style: StyleChurch}
		if ch.ID == c.selectedID && c.selectedID != "" {
			m.Style = StyleSelected
			selected = m
			continue
		}
		markers = append(markers, m)
	}

	c.group = NewClusterGroup(strconv.Itoa(c.renders), markers)
	c.surface.AddLayer(c.group)
	if selected != nil {
		c.selected = selected
		c.surface.AddLayer(c.selected)
	}
}

// clearLayers removes exactly the result layers this controller added.
func (c *Controller) clearLayers() {
	if c.group != nil {
		c.surface.RemoveLayer(c.group)
		c.group = nil
	}
	if c.selected != nil {
		c.surface.RemoveLayer(c.selected)
		c.selected = nil
	}
}

func (c *Controller) find(id string) (entities.Church, bool) {
	for _, ch := range c.results {
		if ch.ID == id {
			return ch, true
		}
	}
	return entities.Church{}, false
}
