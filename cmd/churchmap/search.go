package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"churchmap/internal/domain/entities"
	"churchmap/internal/schedule"
	"churchmap/internal/services"
)

// position flags shared by the search subcommands
type positionFlags struct {
	lat, lng float64
	set      bool
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().Float64Var(&p.lat, "lat", 0, "your latitude")
	cmd.PersistentFlags().Float64Var(&p.lng, "lng", 0, "your longitude")
}

func (p *positionFlags) resolve(cmd *cobra.Command) {
	p.set = cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")
}

func searchCmd() *cobra.Command {
	var pos positionFlags
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search churches by distance, upcoming Mass or text",
	}
	pos.register(cmd)
	cmd.AddCommand(searchRadiusCmd(&pos))
	cmd.AddCommand(searchScheduleCmd(&pos))
	cmd.AddCommand(searchTextCmd(&pos))
	return cmd
}

func searchRadiusCmd(pos *positionFlags) *cobra.Command {
	var km float64
	var unlimited bool
	cmd := &cobra.Command{
		Use:   "radius",
		Short: "Churches within a distance of you, nearest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos.resolve(cmd)
			c := services.WithinKm(km)
			if unlimited {
				c = services.WithinRadius(services.RadiusUnlimited)
			}
			return runSearch(cmd, pos, c, time.Time{})
		},
	}
	cmd.Flags().Float64Var(&km, "km", 5, "radius in kilometres")
	cmd.Flags().BoolVar(&unlimited, "unlimited", false, "no distance limit")
	return cmd
}

func searchScheduleCmd(pos *positionFlags) *cobra.Command {
	var hours float64
	var at string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Churches with a Mass starting soon, soonest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos.resolve(cmd)
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			return runSearch(cmd, pos, services.StartingWithin(schedule.HoursToDuration(hours)), now)
		},
	}
	cmd.Flags().Float64Var(&hours, "hours", 2, "look this many hours ahead")
	cmd.Flags().StringVar(&at, "at", "", `pretend it is this local time ("2006-01-02 15:04")`)
	return cmd
}

func searchTextCmd(pos *positionFlags) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "text <term>",
		Short: "Churches whose name, address or diocese contains the term",
		Long: `Churches whose name, address or diocese contains the term.

With --interactive, terms are read one per line from stdin as you type them.
Each line replaces the previous one, and only the result for the latest term
is printed once typing pauses (search.text_debounce).`,
		Args: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pos.resolve(cmd)
			if interactive {
				return runInteractiveText(cmd, pos)
			}
			return runSearch(cmd, pos, services.Matching(strings.Join(args, " ")), time.Time{})
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read search terms from stdin")
	return cmd
}

// settledText is one delivered interactive result.
type settledText struct {
	term   string
	result *services.Result
	err    error
}

// runInteractiveText feeds stdin lines into a debounced TextQuery. At end of
// input it waits for the result of the last line.
func runInteractiveText(cmd *cobra.Command, pos *positionFlags) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if pos.set {
		a.location.UpdatePosition(entities.NewLocation(pos.lat, pos.lng))
	}

	out := cmd.OutOrStdout()
	settled := make(chan settledText, 1)
	q := services.NewTextQuery(a.search, a.cfg.Search.TextDebounce, func(r *services.Result, err error) {
		s := settledText{result: r, err: err}
		if r != nil {
			s.term = r.Criteria.Term
			fmt.Fprintf(out, "Results for %q:\n", s.term)
			printHits(out, r)
		}
		// Latest only: the query lock serializes deliveries, so this is the
		// channel's only sender.
		for {
			select {
			case settled <- s:
				return
			default:
			}
			select {
			case <-settled:
			default:
			}
		}
	})
	defer q.Stop()

	var last string
	typed := false
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		last = strings.TrimSpace(scanner.Text())
		typed = true
		q.Update(last)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading terms: %w", err)
	}
	if !typed {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		select {
		case s := <-settled:
			if s.err != nil {
				return s.err
			}
			if s.term == last {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func parseAt(at string) (time.Time, error) {
	if at == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return t, nil
}

func runSearch(cmd *cobra.Command, pos *positionFlags, c services.Criteria, now time.Time) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if pos.set {
		a.location.UpdatePosition(entities.NewLocation(pos.lat, pos.lng))
	}
	if !now.IsZero() {
		a.search.SetClock(func() time.Time { return now })
	}

	result, err := a.search.Search(context.Background(), c)
	if errors.Is(err, services.ErrPositionUnknown) {
		a.notifier.NotifyPositionUnknown()
		return fmt.Errorf("%w: pass --lat and --lng, or use --unlimited", err)
	}
	if err != nil {
		return err
	}

	if c.Kind == services.CriteriaSchedule {
		fmt.Fprintf(cmd.OutOrStdout(), "Masses in the next %s:\n", formatDuration(c.Horizon))
	}
	printHits(cmd.OutOrStdout(), result)
	return nil
}
