package models

import "encoding/json"

// Channel identifies where a review was collected
type Channel string

const (
	ChannelHostaway Channel = "hostaway"
	ChannelGoogle   Channel = "google"
)

// ReviewType is the direction of a review
type ReviewType string

const (
	TypeGuestToHost ReviewType = "guest-to-host"
	TypeHostToGuest ReviewType = "host-to-guest"
	TypeUnknown     ReviewType = "unknown"
)

// CategoryRating is one sub-score of a review, e.g. cleanliness
type CategoryRating struct {
	Category string   `json:"category"`
	Rating   *float64 `json:"rating"`
}

// Review is the canonical review shape every channel is normalized into
type Review struct {
	ID            string           `json:"id"` // scoped by channel, e.g. "hostaway:7453"
	ListingID     *string          `json:"listingId"`
	ListingName   string           `json:"listingName"`
	ListingKey    string           `json:"listingKey"`
	Channel       Channel          `json:"channel"`
	Type          ReviewType       `json:"type"`
	OverallRating *float64         `json:"overallRating"`
	Categories    []CategoryRating `json:"categories"`
	Text          string           `json:"text"`
	AuthorName    *string          `json:"authorName"`
	SubmittedAt   string           `json:"submittedAt"`
	Raw           json.RawMessage  `json:"raw,omitempty"`
}

// CategoryAverages maps a category name to its rounded mean rating
type CategoryAverages map[string]float64

// Counts partitions a review collection
type Counts struct {
	Total     int            `json:"total"`
	ByChannel map[string]int `json:"byChannel"`
	ByType    map[string]int `json:"byType"`
}

// MonthlyPoint is one bucket of the monthly time series
type MonthlyPoint struct {
	Month     string   `json:"month"` // UTC "YYYY-MM"
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avgRating"`
}

// Aggregates summarizes a filtered review collection
type Aggregates struct {
	AvgOverallRating  *float64         `json:"avgOverallRating"`
	AvgByCategory     CategoryAverages `json:"avgByCategory"`
	Counts            Counts           `json:"counts"`
	TimeSeriesMonthly []MonthlyPoint   `json:"timeSeriesMonthly"`
}

// ReviewsResponse is the dashboard listing payload
type ReviewsResponse struct {
	Items      []Review   `json:"items"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	Total      int        `json:"total"`
	Aggregates Aggregates `json:"aggregates"`
}

// PublicReviewsResponse is the payload served to public listing pages
type PublicReviewsResponse struct {
	Items []Review `json:"items"`
}
