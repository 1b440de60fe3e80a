package sources

import (
	"context"
	"errors"

	"github.com/stayhost/reviews-dashboard/internal/models"
)

// ErrNoReviews means a source answered but had nothing to serve
var ErrNoReviews = errors.New("source returned no reviews")

// Source interface defines the contract for review sources
type Source interface {
	GetName() string
	FetchReviews(ctx context.Context) ([]models.Review, error)
	IsEnabled() bool
}
