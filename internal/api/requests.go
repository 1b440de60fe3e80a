package api

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// selectionRequest toggles one review's public visibility
type selectionRequest struct {
	ListingKey string `json:"listingKey"`
	ReviewID   string `json:"reviewId"`
	Approved   *bool  `json:"approved"`
}

func (r selectionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ListingKey, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&r.ReviewID, validation.Required, validation.By(notBlank), validation.Length(1, 200)),
		validation.Field(&r.Approved, validation.NotNil),
	)
}

type publicQuery struct {
	ListingKey string
}

func (q publicQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.ListingKey, validation.Required, validation.By(notBlank)),
	)
}

type googleQuery struct {
	PlaceID string
}

func (q googleQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.PlaceID, validation.Required, validation.By(notBlank)),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "cannot be blank")
	}
	return nil
}
