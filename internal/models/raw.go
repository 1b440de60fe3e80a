package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// OptionalNumber is a numeric upstream field that may be absent, null or garbage.
// Decoding never fails; anything that is not a finite number or numeric string
// leaves Valid false.
type OptionalNumber struct {
	Value float64
	Valid bool
}

// Ptr returns nil when the number is absent
func (n OptionalNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var text string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(data)
	default:
		return nil
	}

	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// OptionalString accepts a JSON string or number; numbers keep their literal text.
type OptionalString struct {
	Value string
	Valid bool
}

// Ptr returns nil when the string is absent or blank
func (s OptionalString) Ptr() *string {
	if !s.Valid || strings.TrimSpace(s.Value) == "" {
		return nil
	}
	v := s.Value
	return &v
}

// Or returns the value, or fallback when absent or empty
func (s OptionalString) Or(fallback string) string {
	if !s.Valid || s.Value == "" {
		return fallback
	}
	return s.Value
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	*s = OptionalString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		s.Value, s.Valid = v, true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return nil
		}
		s.Value, s.Valid = canonicalNumber(num), true
	}
	return nil
}

// canonicalNumber renders 5, 5.0 and 5e0 identically so ids stay stable
func canonicalNumber(num json.Number) string {
	if i, err := num.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := num.Float64(); err == nil && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return num.String()
}

var errNotObject = errors.New("review record is not a JSON object")

// RawCategory is one entry of Hostaway's reviewCategory array
type RawCategory struct {
	Category OptionalString `json:"category"`
	Rating   OptionalNumber `json:"rating"`
}

// HostawayReviewRaw is a review record as returned by the Hostaway API
type HostawayReviewRaw struct {
	ID             OptionalString
	Type           OptionalString
	Status         OptionalString
	Rating         OptionalNumber
	PublicReview   OptionalString
	ReviewCategory []RawCategory
	SubmittedAt    OptionalString
	GuestName      OptionalString
	ListingName    OptionalString
	ListingID      OptionalString

	// Payload is the record exactly as received
	Payload json.RawMessage
}

// UnmarshalJSON decodes field by field so one malformed field never rejects
// the whole record. Only a non-object payload is an error.
func (r *HostawayReviewRaw) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	*r = HostawayReviewRaw{Payload: append(json.RawMessage(nil), data...)}
	decodeField(fields, "id", &r.ID)
	decodeField(fields, "type", &r.Type)
	decodeField(fields, "status", &r.Status)
	decodeField(fields, "rating", &r.Rating)
	decodeField(fields, "publicReview", &r.PublicReview)
	decodeField(fields, "submittedAt", &r.SubmittedAt)
	decodeField(fields, "guestName", &r.GuestName)
	decodeField(fields, "listingName", &r.ListingName)
	decodeField(fields, "listingId", &r.ListingID)

	var entries []json.RawMessage
	if raw, ok := fields["reviewCategory"]; ok && json.Unmarshal(raw, &entries) == nil {
		for _, entry := range entries {
			var c RawCategory
			if bytes.HasPrefix(bytes.TrimSpace(entry), []byte("{")) && json.Unmarshal(entry, &c) == nil && c.Category.Valid {
				r.ReviewCategory = append(r.ReviewCategory, c)
			}
		}
	}
	return nil
}

func decodeField(fields map[string]json.RawMessage, name string, dst json.Unmarshaler) {
	if raw, ok := fields[name]; ok {
		_ = dst.UnmarshalJSON(raw)
	}
}

// GoogleReviewRaw is a review from the Google Places API (v1)
type GoogleReviewRaw struct {
	Name   string         `json:"name"`
	Rating OptionalNumber `json:"rating"`
	Text   struct {
		Text string `json:"text"`
	} `json:"text"`
	AuthorAttribution struct {
		DisplayName string `json:"displayName"`
	} `json:"authorAttribution"`
	PublishTime string `json:"publishTime"`

	Payload json.RawMessage `json:"-"`
}

// GooglePlaceReviews is the body of a Places "fields=reviews" lookup
type GooglePlaceReviews struct {
	Reviews []json.RawMessage `json:"reviews"`
}
