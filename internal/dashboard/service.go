package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/approvals"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
	"github.com/stayhost/reviews-dashboard/internal/sources"
)

// ErrGoogleNotConfigured is returned when no Places API key is set
var ErrGoogleNotConfigured = errors.New("google places is not configured")

// Service runs the review pipeline for the dashboard and the public pages
type Service struct {
	primary   sources.Source
	fallback  sources.Source
	google    *sources.GoogleSource
	approvals approvals.Store
	metrics   *Metrics
	mu        sync.RWMutex
}

// Metrics describes recent upstream loads
type Metrics struct {
	TotalLoads       int            `json:"total_loads"`
	LastLoad         time.Time      `json:"last_load"`
	LastLoadDuration string         `json:"last_load_duration"`
	LastSource       string         `json:"last_source"`
	LastReviewCount  int            `json:"last_review_count"`
	FallbackLoads    int            `json:"fallback_loads"`
	UpstreamErrors   int            `json:"upstream_errors"`
	SourceLoads      map[string]int `json:"source_loads"`
}

// NewService wires the sources and approval store. primary may be nil or
// disabled, in which case every load is served by fallback.
func NewService(primary, fallback sources.Source, google *sources.GoogleSource, store approvals.Store) *Service {
	return &Service{
		primary:   primary,
		fallback:  fallback,
		google:    google,
		approvals: store,
		metrics: &Metrics{
			SourceLoads: make(map[string]int),
		},
	}
}

// LoadReviews returns the canonical review set for this request. It never
// fails: upstream problems degrade to the fallback source, and a failing
// fallback degrades to an empty set.
func (s *Service) LoadReviews(ctx context.Context) []models.Review {
	start := time.Now()
	upstreamFailed := false

	if s.primary != nil && s.primary.IsEnabled() {
		items, err := s.primary.FetchReviews(ctx)
		if err == nil {
			s.recordLoad(s.primary.GetName(), len(items), time.Since(start), false, false)
			return items
		}
		if errors.Is(err, sources.ErrNoReviews) {
			logrus.Infof("No reviews from %s, serving %s data", s.primary.GetName(), s.fallbackName())
		} else {
			logrus.Errorf("Error fetching from %s, serving %s data: %v", s.primary.GetName(), s.fallbackName(), err)
			upstreamFailed = true
		}
	}

	if s.fallback == nil {
		s.recordLoad("none", 0, time.Since(start), true, upstreamFailed)
		return []models.Review{}
	}

	items, err := s.fallback.FetchReviews(ctx)
	if err != nil {
		logrus.Errorf("Error fetching from %s: %v", s.fallback.GetName(), err)
		s.recordLoad(s.fallback.GetName(), 0, time.Since(start), true, true)
		return []models.Review{}
	}

	s.recordLoad(s.fallback.GetName(), len(items), time.Since(start), true, upstreamFailed)
	return items
}

func (s *Service) fallbackName() string {
	if s.fallback == nil {
		return "no"
	}
	return s.fallback.GetName()
}

// ListReviews filters, sorts and paginates the review set. Aggregates cover
// the filtered set, not just the returned page.
func (s *Service) ListReviews(ctx context.Context, q reviews.Query) models.ReviewsResponse {
	filtered := reviews.Filter(s.LoadReviews(ctx), q)
	page := reviews.Paginate(reviews.Sort(filtered, q), q)

	return models.ReviewsResponse{
		Items:      page.Items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		Aggregates: reviews.ComputeAggregates(filtered),
	}
}

// PublicReviews returns the reviews approved for listingKey, in source order
func (s *Service) PublicReviews(ctx context.Context, listingKey string) (models.PublicReviewsResponse, error) {
	members, err := s.approvals.Members(ctx, listingKey)
	if err != nil {
		return models.PublicReviewsResponse{}, fmt.Errorf("failed to load approvals: %w", err)
	}

	approved := make(map[string]struct{}, len(members))
	for _, id := range members {
		approved[id] = struct{}{}
	}

	items := []models.Review{}
	if len(approved) > 0 {
		for _, r := range s.LoadReviews(ctx) {
			if _, ok := approved[r.ID]; ok {
				items = append(items, r)
			}
		}
	}
	return models.PublicReviewsResponse{Items: items}, nil
}

// ParseListingKeys splits a comma separated list, trimming blanks and duplicates
func ParseListingKeys(list string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, part := range strings.Split(list, ",") {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// ApprovedMap looks up the approval sets of several listings concurrently
func (s *Service) ApprovedMap(ctx context.Context, listingKeys []string) (map[string][]string, error) {
	type result struct {
		key     string
		members []string
		err     error
	}

	var wg sync.WaitGroup
	results := make(chan result, len(listingKeys))

	for _, key := range listingKeys {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			members, err := s.approvals.Members(ctx, k)
			results <- result{key: k, members: members, err: err}
		}(key)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string][]string, len(listingKeys))
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, res.err)
			continue
		}
		out[res.key] = res.members
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load approvals: %w", errors.Join(errs...))
	}
	return out, nil
}

// SetApproval adds reviewID to or removes it from the listing's approval set
func (s *Service) SetApproval(ctx context.Context, listingKey, reviewID string, approved bool) error {
	if approved {
		if err := s.approvals.Add(ctx, listingKey, reviewID); err != nil {
			return err
		}
		logrus.Infof("Approved %s for %s", reviewID, listingKey)
		return nil
	}

	if err := s.approvals.Remove(ctx, listingKey, reviewID); err != nil {
		return err
	}
	logrus.Infof("Unapproved %s for %s", reviewID, listingKey)
	return nil
}

// GoogleConfigured reports whether Google Places lookups are possible
func (s *Service) GoogleConfigured() bool {
	return s.google != nil && s.google.IsEnabled()
}

// GoogleReviews fetches and normalizes the reviews of one Google place
func (s *Service) GoogleReviews(ctx context.Context, placeID, listingName string) ([]models.Review, error) {
	if !s.GoogleConfigured() {
		return nil, ErrGoogleNotConfigured
	}
	return s.google.FetchPlaceReviews(ctx, placeID, listingName)
}

// ApprovalStoreName names the backend in use
func (s *Service) ApprovalStoreName() string {
	return s.approvals.Name()
}

func (s *Service) recordLoad(source string, count int, duration time.Duration, fallback, upstreamFailed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalLoads++
	s.metrics.LastLoad = time.Now()
	s.metrics.LastLoadDuration = duration.String()
	s.metrics.LastSource = source
	s.metrics.LastReviewCount = count
	s.metrics.SourceLoads[source]++
	if fallback {
		s.metrics.FallbackLoads++
	}
	if upstreamFailed {
		s.metrics.UpstreamErrors++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.metrics, "", "  ")
	if err != nil {
		logrus.Errorf("Failed to encode metrics: %v", err)
		return "{}"
	}
	return string(data)
}
