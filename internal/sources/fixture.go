package sources

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/models"
	"github.com/stayhost/reviews-dashboard/internal/reviews"
	"github.com/stayhost/reviews-dashboard/internal/storage"
)

// DefaultFixtureName is the object name of the Hostaway fixture dataset
const DefaultFixtureName = "hostaway.json"

//go:embed fixtures/hostaway.json
var embeddedHostaway []byte

// EmbeddedFixture returns the Hostaway dataset compiled into the binary
func EmbeddedFixture() []byte {
	return append([]byte(nil), embeddedHostaway...)
}

// FixtureSource serves a Hostaway-format dataset from storage, falling back
// to the embedded copy when storage is absent or fails
type FixtureSource struct {
	storage storage.StorageInterface
	name    string
}

// Ensure FixtureSource implements Source
var _ Source = (*FixtureSource)(nil)

// NewFixtureSource creates a fixture source; store may be nil
func NewFixtureSource(store storage.StorageInterface, name string) *FixtureSource {
	if name == "" {
		name = DefaultFixtureName
	}
	return &FixtureSource{storage: store, name: name}
}

func (f *FixtureSource) GetName() string {
	return "fixture"
}

func (f *FixtureSource) IsEnabled() bool {
	return true
}

func (f *FixtureSource) FetchReviews(ctx context.Context) ([]models.Review, error) {
	if f.storage != nil {
		data, err := f.storage.Retrieve(ctx, f.name)
		if err == nil {
			items, decodeErr := reviews.DecodeHostaway(data)
			if decodeErr == nil {
				return items, nil
			}
			err = decodeErr
		}
		logrus.Errorf("Fixture %s unavailable in storage, using embedded copy: %v", f.name, err)
	}

	items, err := reviews.DecodeHostaway(embeddedHostaway)
	if err != nil {
		return nil, fmt.Errorf("embedded fixture is corrupt: %w", err)
	}
	return items, nil
}
