package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/services"
)

func printChurches(w io.Writer, churches []entities.Church) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDIOCESE\tADDRESS")
	for _, c := range churches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Diocese, c.Address)
	}
	tw.Flush()
}

func printHits(w io.Writer, result *services.Result) {
	if len(result.Hits) == 0 {
		fmt.Fprintln(w, "No churches found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDISTANCE\tNEXT MASS\tADDRESS")
	for _, h := range result.Hits {
		dist, next := "-", "-"
		if h.HasDistance {
			dist = formatDistance(h.Distance)
		}
		if !h.NextOccurrence.IsZero() {
			next = h.NextOccurrence.Format("Mon 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", h.Church.ID, h.Church.Name, dist, next, h.Church.Address)
	}
	tw.Flush()
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
