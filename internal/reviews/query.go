package reviews

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stayhost/reviews-dashboard/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortKey selects the ordering applied before pagination
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByRating SortKey = "rating"
)

// SortDir is the direction of the ordering
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ErrInvalidQuery marks query parameters the caller must fix
var ErrInvalidQuery = errors.New("invalid query")

// Query is a declarative review selection. Zero values mean "no constraint".
type Query struct {
	Listing   string
	Channel   string
	Type      string
	Category  string
	From      *time.Time
	To        *time.Time
	MinRating *float64

	SortBy   SortKey
	SortDir  SortDir
	Page     int
	PageSize int
}

// NewQuery returns a Query with no filters, newest first, first page.
func NewQuery() Query {
	return Query{SortBy: SortByDate, SortDir: SortDesc, Page: 1, PageSize: DefaultPageSize}
}

// ParseQuery builds a Query from URL parameters. Malformed numbers fall back to
// defaults; a malformed from/to date is an ErrInvalidQuery.
func ParseQuery(values url.Values) (Query, error) {
	q := NewQuery()
	q.Listing = strings.TrimSpace(values.Get("listing"))
	q.Channel = strings.TrimSpace(values.Get("channel"))
	q.Type = strings.TrimSpace(values.Get("type"))
	q.Category = strings.TrimSpace(values.Get("category"))

	if values.Get("sortBy") == string(SortByRating) {
		q.SortBy = SortByRating
	}
	if values.Get("sortDir") == string(SortAsc) {
		q.SortDir = SortAsc
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(values.Get("minRating")), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		q.MinRating = &v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(values.Get("page"))); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(values.Get("pageSize"))); err == nil {
		q.PageSize = v
	}

	var err error
	if q.From, err = parseDateParam("from", values.Get("from")); err != nil {
		return Query{}, err
	}
	if q.To, err = parseDateParam("to", values.Get("to")); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseDateParam(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s must be an RFC3339 timestamp or YYYY-MM-DD date, got %q", ErrInvalidQuery, name, value)
}

// Filter keeps the reviews matching every predicate set on q.
func Filter(all []models.Review, q Query) []models.Review {
	out := make([]models.Review, 0, len(all))
	for _, r := range all {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Review, q Query) bool {
	if q.Listing != "" && r.ListingName != q.Listing && (r.ListingID == nil || *r.ListingID != q.Listing) {
		return false
	}
	if q.Channel != "" && string(r.Channel) != q.Channel {
		return false
	}
	if q.Type != "" && string(r.Type) != q.Type {
		return false
	}
	if q.Category != "" && !hasCategory(r, q.Category) {
		return false
	}
	if q.From != nil || q.To != nil {
		submitted := submittedTime(r)
		if q.From != nil && submitted.Before(*q.From) {
			return false
		}
		if q.To != nil && submitted.After(*q.To) {
			return false
		}
	}
	// a missing rating counts as 0 here, unlike in the aggregates
	if q.MinRating != nil && ratingOrZero(r) < *q.MinRating {
		return false
	}
	return true
}

func hasCategory(r models.Review, category string) bool {
	for _, c := range r.Categories {
		if c.Category == category {
			return true
		}
	}
	return false
}

func ratingOrZero(r models.Review) float64 {
	if r.OverallRating == nil {
		return 0
	}
	return *r.OverallRating
}

func submittedTime(r models.Review) time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.SubmittedAt)
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}

// Sort returns a sorted copy. Ties keep their input order in ascending mode;
// descending is the exact reverse of ascending.
func Sort(items []models.Review, q Query) []models.Review {
	sorted := append([]models.Review(nil), items...)

	var key func(models.Review) float64
	if q.SortBy == SortByRating {
		key = func(r models.Review) float64 {
			if r.OverallRating == nil {
				return math.Inf(-1)
			}
			return *r.OverallRating
		}
	} else {
		key = func(r models.Review) float64 {
			return float64(submittedTime(r).UnixMilli())
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) < key(sorted[j])
	})

	if q.SortDir != SortAsc {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return sorted
}

// Page is one window of a sorted collection
type Page struct {
	Page     int
	PageSize int
	Total    int
	Items    []models.Review
}

// Paginate clamps page to >= 1 and page size to [1, MaxPageSize]. A page past
// the end is empty.
func Paginate(items []models.Review, q Query) Page {
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	result := Page{Page: page, PageSize: size, Total: len(items), Items: []models.Review{}}
	// compare page counts before multiplying so huge pages cannot overflow
	if page-1 >= (len(items)+size-1)/size {
		return result
	}
	start := (page - 1) * size
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	result.Items = items[start:end]
	return result
}
