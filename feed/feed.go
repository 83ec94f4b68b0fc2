// Package feed implements the query pipeline behind the thoughts list:
// deriving like counts, filtering, sorting, pagination and the projection
// of Thought records into their public shape.
package feed

import (
	"net/url"
	"sort"
	"strconv"
	"time"

	"happythoughts/domain"
)

// PageSize is the fixed number of thoughts per feed page.
const PageSize = 10

// Sort keys accepted by the feed.
const (
	SortDate  = "date"
	SortLikes = "likes"
)

// Params are the feed controls parsed from a request's query string.
// Parsing is deliberately permissive: malformed values degrade to their
// defaults instead of failing the request.
type Params struct {
	MinLikes *int
	FromDate *time.Time
	SortBy   string
	Order    string
	Page     int
}

// ParseParams reads feed controls from raw query values. The sortBy key
// also accepts the alias "sort". Unknown sort keys are ignored, any order
// other than "asc" means descending, and a missing or invalid page means
// page 1.
func ParseParams(values url.Values) Params {
	p := Params{Page: 1}

	if raw := values.Get("minLikes"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			p.MinLikes = &n
		}
	}
	if raw := values.Get("fromDate"); raw != "" {
		if t, ok := parseDate(raw); ok {
			p.FromDate = &t
		}
	}
	p.SortBy = values.Get("sortBy")
	if p.SortBy == "" {
		p.SortBy = values.Get("sort")
	}
	if p.SortBy != SortDate && p.SortBy != SortLikes {
		p.SortBy = ""
	}
	p.Order = values.Get("order")
	if raw := values.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			p.Page = n
		}
	}
	return p
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// PublicThought is the projection of a Thought exposed to clients. The edit
// token and the raw creator id never leave the server; the creator is only
// visible through the derived IsCreator flag.
type PublicThought struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	Hearts    int       `json:"hearts"`
	CreatedAt time.Time `json:"createdAt"`
	IsCreator bool      `json:"isCreator"`
}

// Page is the paginated feed envelope.
type Page struct {
	Page               int             `json:"page"`
	NumOfPages         int             `json:"numOfPages"`
	NumOfTotalMessages int             `json:"numOfTotalMessages"`
	PageResults        []PublicThought `json:"pageResults"`
}

// Build runs the feed pipeline over the given thoughts: filter, sort,
// paginate, then project for the viewer. viewer may be nil (anonymous).
// A page beyond the last one yields an empty result set, not an error.
func Build(thoughts []domain.Thought, params Params, viewer *domain.User) Page {
	matching := filter(thoughts, params)
	sortThoughts(matching, params)

	total := len(matching)
	numOfPages := (total + PageSize - 1) / PageSize

	page := params.Page
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	results := make([]PublicThought, 0, end-start)
	for _, t := range matching[start:end] {
		results = append(results, Project(t, viewer))
	}

	return Page{
		Page:               page,
		NumOfPages:         numOfPages,
		NumOfTotalMessages: total,
		PageResults:        results,
	}
}

// LikeCount derives the like count of a thought from its like records.
func LikeCount(t domain.Thought) int {
	return len(t.Hearts)
}

// filter keeps the thoughts satisfying every supplied predicate at once.
// The fromDate comparison is inclusive, at full timestamp precision.
func filter(thoughts []domain.Thought, params Params) []domain.Thought {
	kept := make([]domain.Thought, 0, len(thoughts))
	for _, t := range thoughts {
		if params.MinLikes != nil && LikeCount(t) < *params.MinLikes {
			continue
		}
		if params.FromDate != nil && t.CreatedAt.Before(*params.FromDate) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// sortThoughts orders the thoughts in place. Sorting by likes breaks ties
// on createdAt descending; sorting by date, and the default order, apply no
// secondary key.
func sortThoughts(thoughts []domain.Thought, params Params) {
	asc := params.Order == "asc"
	switch params.SortBy {
	case SortLikes:
		sort.SliceStable(thoughts, func(i, j int) bool {
			li, lj := LikeCount(thoughts[i]), LikeCount(thoughts[j])
			if li != lj {
				if asc {
					return li < lj
				}
				return li > lj
			}
			return thoughts[i].CreatedAt.After(thoughts[j].CreatedAt)
		})
	case SortDate:
		sort.SliceStable(thoughts, func(i, j int) bool {
			if asc {
				return thoughts[i].CreatedAt.Before(thoughts[j].CreatedAt)
			}
			return thoughts[i].CreatedAt.After(thoughts[j].CreatedAt)
		})
	default:
		sort.SliceStable(thoughts, func(i, j int) bool {
			return thoughts[i].CreatedAt.After(thoughts[j].CreatedAt)
		})
	}
}

// Project reshapes a thought for a response to the given viewer.
func Project(t domain.Thought, viewer *domain.User) PublicThought {
	return PublicThought{
		ID:        t.ID,
		Message:   t.Message,
		Hearts:    LikeCount(t),
		CreatedAt: t.CreatedAt,
		IsCreator: viewer != nil && t.UserID != nil && *t.UserID == viewer.ID,
	}
}

// ProjectAll reshapes a slice of thoughts for a response to the given viewer.
func ProjectAll(thoughts []domain.Thought, viewer *domain.User) []PublicThought {
	results := make([]PublicThought, 0, len(thoughts))
	for _, t := range thoughts {
		results = append(results, Project(t, viewer))
	}
	return results
}
