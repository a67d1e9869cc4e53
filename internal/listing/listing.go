// Package listing filters, sorts and paginates a church list. The offline
// directory and the reference backend both answer paginated queries with it,
// so the two paths agree on every page.
package listing

import (
	"sort"
	"strings"

	"churchmap/internal/domain/entities"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Options describes one paginated query. Zero Page or Limit means the
// default; an empty SortKey leaves the order alone.
type Options struct {
	Page          int
	Limit         int
	SearchTerm    string
	SortKey       entities.SortKey
	SortDirection SortDirection
}

// Page is one slice of a query result.
type Page struct {
	Data       []entities.Church `json:"data"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// Normalize fills defaulted fields.
func (o Options) Normalize() Options {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.SortKey != "" && o.SortDirection == "" {
		o.SortDirection = Ascending
	}
	return o
}

// MatchesTerm reports whether term occurs, ignoring case, in the church's
// name, address or diocese. The empty term matches everything.
func MatchesTerm(c entities.Church, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), t) ||
		strings.Contains(strings.ToLower(c.Address), t) ||
		strings.Contains(strings.ToLower(c.Diocese), t)
}

// Filter returns the churches matching term. The input is never modified.
func Filter(churches []entities.Church, term string) []entities.Church {
	out := make([]entities.Church, 0, len(churches))
	for _, c := range churches {
		if MatchesTerm(c, term) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders churches in place by the raw field value, compared byte-wise
// (so case-sensitive). Equal values keep their relative order.
func Sort(churches []entities.Church, key entities.SortKey, dir SortDirection) {
	if key == "" {
		return
	}
	sort.SliceStable(churches, func(i, j int) bool {
		a, b := churches[i].Field(key), churches[j].Field(key)
		if dir == Descending {
			return a > b
		}
		return a < b
	})
}

// Apply runs filter, sort and pagination in that order.
func Apply(churches []entities.Church, opts Options) Page {
	opts = opts.Normalize()

	matched := Filter(churches, opts.SearchTerm)
	Sort(matched, opts.SortKey, opts.SortDirection)

	total := len(matched)
	pages := total / opts.Limit
	if total%opts.Limit != 0 {
		pages++
	}

	// Compare page indexes before multiplying so huge Page or Limit values
	// cannot overflow.
	data := matched[:0]
	if opts.Page-1 < pages {
		start := (opts.Page - 1) * opts.Limit
		end := total
		if total-start > opts.Limit {
			end = start + opts.Limit
		}
		data = matched[start:end]
	}

	return Page{
		Data:       data,
		Total:      total,
		TotalPages: pages,
	}
}
