package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"churchmap/internal/domain/entities"
	"churchmap/internal/geo"
	"churchmap/internal/listing"
	"churchmap/internal/repository"
	"churchmap/internal/schedule"
)

// ErrPositionUnknown means a radius search ran before the first location
// fix. It is not fatal; the caller should ask the user to retry.
var ErrPositionUnknown = errors.New("user position not yet known")

// RadiusUnlimited is the "no limit" radius: every church, no position needed.
const RadiusUnlimited = -1.0

// CriteriaKind selects how a search filters and orders the working set.
type CriteriaKind string

const (
	CriteriaNone     CriteriaKind = "none"
	CriteriaRadius   CriteriaKind = "radius"
	CriteriaSchedule CriteriaKind = "schedule"
	CriteriaText     CriteriaKind = "text"
)

// Criteria describes one search. Only the field matching Kind is read.
type Criteria struct {
	Kind         CriteriaKind
	RadiusMeters float64
	Horizon      time.Duration
	Term         string
}

func NoCriteria() Criteria { return Criteria{Kind: CriteriaNone} }

// WithinRadius searches around the user. Pass RadiusUnlimited for no limit.
func WithinRadius(meters float64) Criteria {
	return Criteria{Kind: CriteriaRadius, RadiusMeters: meters}
}

// WithinKm is WithinRadius in kilometres, the unit the presets use.
func WithinKm(km float64) Criteria {
	if km < 0 {
		return WithinRadius(RadiusUnlimited)
	}
	return WithinRadius(km * 1000)
}

// StartingWithin finds churches with a Mass in (now, now+horizon].
func StartingWithin(horizon time.Duration) Criteria {
	return Criteria{Kind: CriteriaSchedule, Horizon: horizon}
}

// Matching is a text search over name, address and diocese.
func Matching(term string) Criteria {
	return Criteria{Kind: CriteriaText, Term: term}
}

// Hit is one church in a result, with whatever the search computed for it.
type Hit struct {
	Church         entities.Church
	Distance       float64 // meters, when HasDistance
	HasDistance    bool
	NextOccurrence time.Time // zero unless the search was by schedule
}

// Result is an ordered search result.
type Result struct {
	Criteria Criteria
	Hits     []Hit
}

// Churches returns the hits' churches in result order.
func (r *Result) Churches() []entities.Church {
	out := make([]entities.Church, len(r.Hits))
	for i, h := range r.Hits {
		out[i] = h.Church
	}
	return out
}

// PositionProvider answers "where is the user?". LocationService is one.
type PositionProvider interface {
	Position() (entities.Location, bool)
}

// SearchService turns Criteria plus the current working set into a Result.
type SearchService struct {
	source   repository.ChurchSource
	position PositionProvider
	now      func() time.Time
	logger   *slog.Logger
}

func NewSearchService(source repository.ChurchSource, position PositionProvider, logger *slog.Logger) *SearchService {
	return &SearchService{
		source:   source,
		position: position,
		now:      time.Now,
		logger:   logger,
	}
}

// SetClock replaces the clock schedule searches use.
func (s *SearchService) SetClock(now func() time.Time) {
	s.now = now
}

// Search runs c against the full working set.
func (s *SearchService) Search(ctx context.Context, c Criteria) (*Result, error) {
	churches, err := s.source.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", c.Kind, err)
	}

	var hits []Hit
	switch c.Kind {
	case CriteriaRadius:
		hits, err = s.byRadius(churches, c.RadiusMeters)
	case CriteriaSchedule:
		hits = byUpcomingMass(churches, s.now(), c.Horizon)
	case CriteriaText:
		hits = byText(churches, c.Term)
	case CriteriaNone, "":
		hits = unfiltered(churches)
	default:
		return nil, fmt.Errorf("search: unknown criteria %q", c.Kind)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search_completed",
		"kind", string(c.Kind),
		"working_set", len(churches),
		"hits", len(hits),
	)
	return &Result{Criteria: c, Hits: hits}, nil
}

// byRadius keeps churches within meters of the user, nearest first. The
// same distance value decides membership and order.
func (s *SearchService) byRadius(churches []entities.Church, meters float64) ([]Hit, error) {
	user, known := s.position.Position()

	if meters < 0 {
		hits := unfiltered(churches)
		if known {
			for i := range hits {
				hits[i].Distance = geo.Distance(user, hits[i].Church.Position())
				hits[i].HasDistance = true
			}
		}
		return hits, nil
	}
	if !known {
		return nil, ErrPositionUnknown
	}

	hits := make([]Hit, 0, len(churches))
	for _, c := range churches {
		d := geo.Distance(user, c.Position())
		if d <= meters {
			hits = append(hits, Hit{Church: c, Distance: d, HasDistance: true})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits, nil
}

// byUpcomingMass keeps churches with a Mass in (now, now+horizon], soonest
// first.
func byUpcomingMass(churches []entities.Church, now time.Time, horizon time.Duration) []Hit {
	hits := make([]Hit, 0, len(churches))
	for _, c := range churches {
		if next, ok := schedule.Next(c.MassTimes, now, horizon); ok {
			hits = append(hits, Hit{Church: c, NextOccurrence: next})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].NextOccurrence.Before(hits[j].NextOccurrence)
	})
	return hits
}

func byText(churches []entities.Church, term string) []Hit {
	hits := make([]Hit, 0, len(churches))
	for _, c := range churches {
		if listing.MatchesTerm(c, term) {
			hits = append(hits, Hit{Church: c})
		}
	}
	return hits
}

func unfiltered(churches []entities.Church) []Hit {
	hits := make([]Hit, len(churches))
	for i, c := range churches {
		hits[i] = Hit{Church: c}
	}
	return hits
}
