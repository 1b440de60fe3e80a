package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
)

// DefaultGooglePlacesBaseURL is the Places API (New) root
const DefaultGooglePlacesBaseURL = "https://places.googleapis.com/v1"

// GoogleSource looks up the reviews attached to a Google place
type GoogleSource struct {
	client  *resty.Client
	baseURL string
	apiKey  string

	// default place used by FetchReviews
	placeID     string
	listingName string
}

// Ensure GoogleSource implements Source
var _ Source = (*GoogleSource)(nil)

// NewGoogleSource creates a Google Places source
func NewGoogleSource(baseURL, apiKey string, timeout time.Duration) *GoogleSource {
	if baseURL == "" {
		baseURL = DefaultGooglePlacesBaseURL
	}
	return &GoogleSource{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "Reviews-Dashboard/1.0"),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (g *GoogleSource) GetName() string {
	return "google"
}

func (g *GoogleSource) IsEnabled() bool {
	return g.apiKey != ""
}

// WithPlace sets the place FetchReviews reads
func (g *GoogleSource) WithPlace(placeID, listingName string) *GoogleSource {
	g.placeID = placeID
	g.listingName = listingName
	return g
}

func (g *GoogleSource) FetchReviews(ctx context.Context) ([]models.Review, error) {
	if g.placeID == "" {
		return nil, fmt.Errorf("no google place configured")
	}
	return g.FetchPlaceReviews(ctx, g.placeID, g.listingName)
}

// FetchPlaceReviews returns the normalized reviews of one place. Reviews that
// do not decode are skipped.
func (g *GoogleSource) FetchPlaceReviews(ctx context.Context, placeID, listingName string) ([]models.Review, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"fields": "reviews",
			"key":    g.apiKey,
		}).
		Get(fmt.Sprintf("%s/places/%s", g.baseURL, url.PathEscape(placeID)))
	if err != nil {
		return nil, fmt.Errorf("google places request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("google places API returned status %d", resp.StatusCode())
	}

	var body models.GooglePlaceReviews
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode google places response: %w", err)
	}

	items := make([]models.Review, 0, len(body.Reviews))
	for i, raw := range body.Reviews {
		var review models.GoogleReviewRaw
		if err := json.Unmarshal(raw, &review); err != nil {
			logrus.Debugf("Skipping google review %d of %s: %v", i, placeID, err)
			continue
		}
		review.Payload = raw
		items = append(items, reviews.NormalizeGoogle(placeID, listingName, i, review))
	}
	return items, nil
}
