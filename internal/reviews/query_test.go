package reviews

import (
	"math"
	"net/url"
	"testing"
	"time"

	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleReviews() []models.Review {
	return []models.Review{
		{
			ID: "hostaway:1", ListingID: ptr("5"), ListingName: "Loft A", Channel: models.ChannelHostaway,
			Type: models.TypeGuestToHost, OverallRating: ptr(8.0), SubmittedAt: "2024-03-05T00:00:00.000Z",
			Categories: []models.CategoryRating{{Category: "cleanliness", Rating: ptr(9.0)}},
		},
		{
			ID: "hostaway:2", ListingID: ptr("5"), ListingName: "Loft A", Channel: models.ChannelHostaway,
			Type: models.TypeHostToGuest, OverallRating: nil, SubmittedAt: "2024-03-20T00:00:00.000Z",
			Categories: []models.CategoryRating{{Category: "respect_house_rules", Rating: ptr(10.0)}},
		},
		{
			ID: "hostaway:3", ListingID: ptr("7"), ListingName: "Studio B", Channel: models.ChannelHostaway,
			Type: models.TypeGuestToHost, OverallRating: ptr(4.0), SubmittedAt: "2024-04-02T00:00:00.000Z",
			Categories: []models.CategoryRating{{Category: "cleanliness", Rating: ptr(3.0)}},
		},
		{
			ID: "google:x:0", ListingID: nil, ListingName: "Studio B", Channel: models.ChannelGoogle,
			Type: models.TypeGuestToHost, OverallRating: ptr(5.0), SubmittedAt: "2024-01-15T00:00:00.000Z",
			Categories: []models.CategoryRating{},
		},
	}
}

func ids(items []models.Review) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		query    Query
		expected []string
	}{
		{"no predicates", Query{}, []string{"hostaway:1", "hostaway:2", "hostaway:3", "google:x:0"}},
		{"listing by id", Query{Listing: "7"}, []string{"hostaway:3"}},
		{"listing by name", Query{Listing: "Studio B"}, []string{"hostaway:3", "google:x:0"}},
		{"channel", Query{Channel: "google"}, []string{"google:x:0"}},
		{"type", Query{Type: "host-to-guest"}, []string{"hostaway:2"}},
		{"category", Query{Category: "cleanliness"}, []string{"hostaway:1", "hostaway:3"}},
		{"inclusive date range", Query{From: &from, To: &to}, []string{"hostaway:1", "hostaway:2"}},
		{"min rating treats missing as zero", Query{MinRating: ptr(0.0)}, []string{"hostaway:1", "hostaway:2", "hostaway:3", "google:x:0"}},
		{"min rating", Query{MinRating: ptr(5.0)}, []string{"hostaway:1", "google:x:0"}},
		{"combined", Query{Listing: "Studio B", Channel: "hostaway", MinRating: ptr(1.0)}, []string{"hostaway:3"}},
		{"no match", Query{Listing: "Nowhere"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(sampleReviews(), tt.query)))
		})
	}
}

func TestFilter_PredicateOrderIndependent(t *testing.T) {
	all := sampleReviews()
	combined := Filter(all, Query{Category: "cleanliness", MinRating: ptr(5.0)})

	byCategoryFirst := Filter(Filter(all, Query{Category: "cleanliness"}), Query{MinRating: ptr(5.0)})
	byRatingFirst := Filter(Filter(all, Query{MinRating: ptr(5.0)}), Query{Category: "cleanliness"})

	assert.Equal(t, ids(combined), ids(byCategoryFirst))
	assert.Equal(t, ids(combined), ids(byRatingFirst))
	assert.Equal(t, []string{"hostaway:1"}, ids(combined))
}

func TestSort(t *testing.T) {
	all := sampleReviews()

	byDateDesc := Sort(all, NewQuery())
	assert.Equal(t, []string{"hostaway:3", "hostaway:2", "hostaway:1", "google:x:0"}, ids(byDateDesc))

	byDateAsc := Sort(all, Query{SortBy: SortByDate, SortDir: SortAsc})
	assert.Equal(t, []string{"google:x:0", "hostaway:1", "hostaway:2", "hostaway:3"}, ids(byDateAsc))

	byRatingAsc := Sort(all, Query{SortBy: SortByRating, SortDir: SortAsc})
	assert.Equal(t, []string{"hostaway:2", "hostaway:3", "google:x:0", "hostaway:1"}, ids(byRatingAsc))

	byRatingDesc := Sort(all, Query{SortBy: SortByRating, SortDir: SortDesc})
	assert.Equal(t, []string{"hostaway:1", "google:x:0", "hostaway:3", "hostaway:2"}, ids(byRatingDesc))

	// input must not be reordered
	assert.Equal(t, "hostaway:1", all[0].ID)
}

func TestSort_NullRatingsFirstAscending(t *testing.T) {
	items := []models.Review{
		{ID: "a", OverallRating: ptr(3.0)},
		{ID: "b"},
		{ID: "c", OverallRating: ptr(0.0)},
		{ID: "d"},
	}

	sorted := Sort(items, Query{SortBy: SortByRating, SortDir: SortAsc})

	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(sorted))
}

func TestSort_StableTies(t *testing.T) {
	items := []models.Review{
		{ID: "a", OverallRating: ptr(5.0)},
		{ID: "b", OverallRating: ptr(5.0)},
		{ID: "c", OverallRating: ptr(5.0)},
	}

	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(items, Query{SortBy: SortByRating, SortDir: SortAsc})))
	assert.Equal(t, []string{"c", "b", "a"}, ids(Sort(items, Query{SortBy: SortByRating, SortDir: SortDesc})))
}

func TestPaginate(t *testing.T) {
	items := make([]models.Review, 45)
	for i := range items {
		items[i] = models.Review{ID: string(rune('a' + i%26))}
	}

	tests := []struct {
		name         string
		page, size   int
		expectedPage int
		expectedSize int
		expectedLen  int
	}{
		{"first page", 1, 20, 1, 20, 20},
		{"last partial page", 3, 20, 3, 20, 5},
		{"beyond range", 4, 20, 4, 20, 0},
		{"far beyond range", 1000, 100, 1000, 100, 0},
		{"offset wrapping to zero", math.MaxInt64/2 + 2, 4, math.MaxInt64/2 + 2, 4, 0},
		{"offset wrapping negative", math.MaxInt64/4 + 2, 4, math.MaxInt64/4 + 2, 4, 0},
		{"page clamped to one", -3, 10, 1, 10, 10},
		{"size clamped up", 1, 0, 1, 1, 1},
		{"size clamped down", 1, 500, 1, 100, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, Query{Page: tt.page, PageSize: tt.size})
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedSize, p.PageSize)
			assert.Equal(t, 45, p.Total)
			assert.Len(t, p.Items, tt.expectedLen)
			assert.LessOrEqual(t, len(p.Items), p.PageSize)
			assert.NotNil(t, p.Items)
		})
	}
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, NewQuery(), q)

	q, err = ParseQuery(url.Values{
		"listing":   {" Loft A "},
		"channel":   {"hostaway"},
		"type":      {"guest-to-host"},
		"category":  {"cleanliness"},
		"minRating": {"7.5"},
		"from":      {"2024-03-01"},
		"to":        {"2024-03-31T23:59:59Z"},
		"sortBy":    {"rating"},
		"sortDir":   {"asc"},
		"page":      {"2"},
		"pageSize":  {"50"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Loft A", q.Listing)
	assert.Equal(t, "hostaway", q.Channel)
	assert.Equal(t, "guest-to-host", q.Type)
	assert.Equal(t, "cleanliness", q.Category)
	require.NotNil(t, q.MinRating)
	assert.Equal(t, 7.5, *q.MinRating)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *q.From)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), *q.To)
	assert.Equal(t, SortByRating, q.SortBy)
	assert.Equal(t, SortAsc, q.SortDir)
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 50, q.PageSize)
}

func TestParseQuery_LenientNumbers(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"minRating": {"high"},
		"page":      {"two"},
		"pageSize":  {""},
		"sortBy":    {"price"},
		"sortDir":   {"sideways"},
	})
	require.NoError(t, err)
	assert.Nil(t, q.MinRating)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, SortByDate, q.SortBy)
	assert.Equal(t, SortDesc, q.SortDir)
}

func TestParseQuery_InvalidDate(t *testing.T) {
	_, err := ParseQuery(url.Values{"from": {"last week"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Contains(t, err.Error(), "from")
}
