package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stayhost/reviews-dashboard/internal/config"
	"github.com/stayhost/reviews-dashboard/internal/sources"
	"github.com/stayhost/reviews-dashboard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		HostawayBaseURL:  "http://127.0.0.1:1",
		UpstreamTimeout:  time.Second,
		StorageContainer: "fixtures",
		FixtureName:      sources.DefaultFixtureName,
	}
}

func TestNew_Defaults(t *testing.T) {
	a, err := New(context.Background(), baseConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Storage)
	assert.Equal(t, "memory", a.Service.ApprovalStoreName())
	assert.False(t, a.Hostaway.IsEnabled())
	assert.False(t, a.Google.IsEnabled())
	assert.Len(t, a.Sources(), 3)

	items := a.Service.LoadReviews(context.Background())
	assert.Len(t, items, 10, "embedded fixture")
}

func TestNew_FixtureDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := baseConfig()
	cfg.FixtureDir = dir

	files, err := storage.NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, files.Store(context.Background(), cfg.FixtureName,
		[]byte(`[{"id":1,"listingId":5,"listingName":"Loft A","rating":8,"submittedAt":"2024-03-05"}]`)))

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Storage)
	items := a.Service.LoadReviews(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "hostaway:1", items[0].ID)
}

func TestNew_RedisApprovals(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.KVURL = "redis://" + mr.Addr()

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "redis", a.Service.ApprovalStoreName())
	require.NoError(t, a.Service.SetApproval(context.Background(), "listing-5", "hostaway:1", true))
	members, err := mr.SMembers("approved:listing-5")
	require.NoError(t, err)
	assert.Equal(t, []string{"hostaway:1"}, members)
	assert.NoError(t, a.Close())
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := baseConfig()
	cfg.RedisAddr = "127.0.0.1:1"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
