package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geolocation"
	"churchmap/internal/mapview"
	"churchmap/internal/services"
)

// firstFixWait bounds how long `map` waits for the position to reach the
// controller.
const firstFixWait = 2 * time.Second

type mapFlags struct {
	pos      positionFlags
	term     string
	selectID string
	fit      bool
}

func mapCmd() *cobra.Command {
	var f mapFlags
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Render the map state (camera, clusters, markers) as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.pos.resolve(cmd)
			return runMap(cmd, f)
		},
	}
	f.pos.register(cmd)
	cmd.Flags().StringVar(&f.term, "search", "", "only show churches matching this text")
	cmd.Flags().StringVar(&f.selectID, "select", "", "highlight the church with this id")
	cmd.Flags().BoolVar(&f.fit, "fit", false, "fit the camera to the results, as after a new search")
	return cmd
}

func runMap(cmd *cobra.Command, f mapFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := a.cfg.Map
	surface := mapview.NewRecorder(m.DefaultCenter(), m.DefaultZoom, m.ViewportWidth, m.ViewportHeight)
	ctrl := mapview.NewController(surface, a.location, mapview.OptionsFromConfig(m), a.logger)
	ctrl.Start(ctx)
	defer ctrl.Close()

	if f.pos.set {
		go a.location.Track(ctx, geolocation.Static{Position: entities.NewLocation(f.pos.lat, f.pos.lng)})
		if !waitForCamera(surface, 1) {
			a.logger.Warn("map_first_fix_timeout")
		}
	}

	result, err := a.search.Search(ctx, services.Matching(f.term))
	if err != nil {
		return err
	}

	ctrl.SetResults(result.Churches())
	if f.fit {
		ctrl.SetResults(result.Churches())
	}
	if f.selectID != "" && !ctrl.Select(f.selectID) {
		return fmt.Errorf("church %q is not among the results", f.selectID)
	}

	printMap(cmd, surface)
	return nil
}

func waitForCamera(surface *mapview.Recorder, moves int) bool {
	deadline := time.Now().Add(firstFixWait)
	for len(surface.Moves()) < moves {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
	return true
}

func printMap(cmd *cobra.Command, surface *mapview.Recorder) {
	out := cmd.OutOrStdout()
	center, zoom := surface.Camera()
	fmt.Fprintf(out, "camera: %.5f, %.5f zoom %d\n", center.Latitude, center.Longitude, zoom)

	for _, layer := range surface.Layers() {
		switch l := layer.(type) {
		case *mapview.ClusterGroup:
			for _, c := range l.Clusters(zoom) {
				if c.Count() == 1 {
					fmt.Fprintf(out, "  marker   %.5f, %.5f  %s\n", c.Center.Latitude, c.Center.Longitude, c.IDs[0])
					continue
				}
				fmt.Fprintf(out, "  cluster  %.5f, %.5f  %s churches\n", c.Center.Latitude, c.Center.Longitude, c.Label())
			}
		case *mapview.Marker:
			fmt.Fprintf(out, "  %-8s %.5f, %.5f  %s\n", l.Style, l.Position.Latitude, l.Position.Longitude, l.Title)
		}
	}
}
