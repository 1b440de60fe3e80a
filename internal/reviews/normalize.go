package reviews

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/models"
)

// TimestampLayout is the fixed format of Review.SubmittedAt
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// DefaultListingName is used when a record carries no listing name
const DefaultListingName = "Unknown Listing"

// EpochTimestamp stands in for missing or unparseable submission times
var EpochTimestamp = time.Unix(0, 0).UTC().Format(TimestampLayout)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp parses an upstream timestamp as UTC. Anything that does
// not parse becomes EpochTimestamp.
func NormalizeTimestamp(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return EpochTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t.UTC().Format(TimestampLayout)
		}
	}
	return EpochTimestamp
}

// NormalizeType maps free-form type strings onto the three known review types.
func NormalizeType(input string) models.ReviewType {
	v := strings.ToLower(input)
	v = strings.NewReplacer("_", "-", " ", "-").Replace(v)
	switch {
	case strings.Contains(v, string(models.TypeGuestToHost)):
		return models.TypeGuestToHost
	case strings.Contains(v, string(models.TypeHostToGuest)):
		return models.TypeHostToGuest
	default:
		return models.TypeUnknown
	}
}

// NormalizeHostaway converts one Hostaway record into a canonical review.
func NormalizeHostaway(r models.HostawayReviewRaw) models.Review {
	listingID := r.ListingID.Ptr()
	listingName := r.ListingName.Or(DefaultListingName)

	categories := make([]models.CategoryRating, 0, len(r.ReviewCategory))
	for _, c := range r.ReviewCategory {
		categories = append(categories, models.CategoryRating{
			Category: c.Category.Value,
			Rating:   c.Rating.Ptr(),
		})
	}

	return models.Review{
		ID:            fmt.Sprintf("%s:%s", models.ChannelHostaway, r.ID.Value),
		ListingID:     listingID,
		ListingName:   listingName,
		ListingKey:    ListingKey(listingID, r.ListingName.Value),
		Channel:       models.ChannelHostaway,
		Type:          NormalizeType(r.Type.Value),
		OverallRating: r.Rating.Ptr(),
		Categories:    categories,
		Text:          r.PublicReview.Value,
		AuthorName:    r.GuestName.Ptr(),
		SubmittedAt:   NormalizeTimestamp(r.SubmittedAt.Value),
		Raw:           r.Payload,
	}
}

// DecodeHostaway decodes a JSON array of Hostaway records and normalizes each.
// Array elements that are not objects are skipped.
func DecodeHostaway(data []byte) ([]models.Review, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode hostaway reviews: %w", err)
	}

	out := make([]models.Review, 0, len(records))
	for i, record := range records {
		var raw models.HostawayReviewRaw
		if err := json.Unmarshal(record, &raw); err != nil {
			logrus.Debugf("Skipping hostaway record %d: %v", i, err)
			continue
		}
		out = append(out, NormalizeHostaway(raw))
	}
	return out, nil
}

// NormalizeGoogle converts one Google Places review. Google reviews are always
// written by guests, and carry no per-category ratings.
func NormalizeGoogle(placeID, listingName string, index int, r models.GoogleReviewRaw) models.Review {
	ref := r.Name
	if ref == "" {
		ref = fmt.Sprintf("%s:%d", placeID, index)
	}
	if listingName == "" {
		listingName = DefaultListingName
	}

	var listingID *string
	if placeID != "" {
		id := placeID
		listingID = &id
	}

	var author *string
	if name := strings.TrimSpace(r.AuthorAttribution.DisplayName); name != "" {
		author = &name
	}

	return models.Review{
		ID:            fmt.Sprintf("%s:%s", models.ChannelGoogle, ref),
		ListingID:     listingID,
		ListingName:   listingName,
		ListingKey:    ListingKey(listingID, listingName),
		Channel:       models.ChannelGoogle,
		Type:          models.TypeGuestToHost,
		OverallRating: r.Rating.Ptr(),
		Categories:    []models.CategoryRating{},
		Text:          r.Text.Text,
		AuthorName:    author,
		SubmittedAt:   NormalizeTimestamp(r.PublishTime),
		Raw:           r.Payload,
	}
}
