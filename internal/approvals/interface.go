package approvals

import "context"

// Store records which review ids are approved for public display, per listing key
type Store interface {
	Add(ctx context.Context, listingKey, reviewID string) error
	Remove(ctx context.Context, listingKey, reviewID string) error
	Members(ctx context.Context, listingKey string) ([]string, error)
	Name() string
}

// Key is the set name an approval set is stored under
func Key(listingKey string) string {
	return "approved:" + listingKey
}
