package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
)

// DefaultHostawayBaseURL is the public Hostaway API root
const DefaultHostawayBaseURL = "https://api.hostaway.com/v1"

// HostawaySource reads reviews from the Hostaway reviews endpoint
type HostawaySource struct {
	client    *resty.Client
	baseURL   string
	accountID string
	apiKey    string
}

// Ensure HostawaySource implements Source
var _ Source = (*HostawaySource)(nil)

type hostawayResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// NewHostawaySource creates a Hostaway source; it is disabled unless both
// account id and api key are set
func NewHostawaySource(baseURL, accountID, apiKey string, timeout time.Duration) *HostawaySource {
	if baseURL == "" {
		baseURL = DefaultHostawayBaseURL
	}
	return &HostawaySource{
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "Reviews-Dashboard/1.0").
			SetHeader("Accept", "application/json"),
		baseURL:   strings.TrimRight(baseURL, "/"),
		accountID: accountID,
		apiKey:    apiKey,
	}
}

func (h *HostawaySource) GetName() string {
	return "hostaway"
}

func (h *HostawaySource) IsEnabled() bool {
	return h.accountID != "" && h.apiKey != ""
}

func (h *HostawaySource) FetchReviews(ctx context.Context) ([]models.Review, error) {
	if !h.IsEnabled() {
		return nil, fmt.Errorf("hostaway source is not configured")
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", h.apiKey).
		SetQueryParam("accountId", h.accountID).
		Get(h.baseURL + "/reviews")
	if err != nil {
		return nil, fmt.Errorf("hostaway request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("hostaway API returned status %d", resp.StatusCode())
	}

	var body hostawayResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode hostaway response: %w", err)
	}

	if len(body.Result) == 0 || string(body.Result) == "null" {
		return nil, ErrNoReviews
	}

	items, err := reviews.DecodeHostaway(body.Result)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoReviews
	}

	logrus.Debugf("Fetched %d reviews from hostaway (status %q)", len(items), body.Status)
	return items, nil
}
