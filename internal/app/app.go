package app

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stayhost/reviews-dashboard/internal/approvals"
	"github.com/stayhost/reviews-dashboard/internal/config"
	"github.com/stayhost/reviews-dashboard/internal/dashboard"
	"github.com/stayhost/reviews-dashboard/internal/sources"
	"github.com/stayhost/reviews-dashboard/internal/storage"
)

// App holds the wired components shared by the binaries
type App struct {
	Config    *config.Config
	Storage   storage.StorageInterface // nil when only the embedded fixture is used
	Approvals approvals.Store
	Hostaway  *sources.HostawaySource
	Fixture   *sources.FixtureSource
	Google    *sources.GoogleSource
	Service   *dashboard.Service
}

// NewStorage picks the fixture storage backend. Azure wins over a local
// directory; with neither configured it returns nil.
func NewStorage(ctx context.Context, cfg *config.Config) (storage.StorageInterface, error) {
	switch {
	case cfg.AzureConfigured():
		logrus.Infof("Using Azure blob container %s for fixtures", cfg.StorageContainer)
		return storage.NewAzureStorage(ctx, storage.AzureOptions{
			AccountName:      cfg.StorageAccount,
			ConnectionString: cfg.StorageConnectionString,
			Container:        cfg.StorageContainer,
		})
	case cfg.FixtureDir != "":
		logrus.Infof("Using fixture directory %s", cfg.FixtureDir)
		return storage.NewFileStorage(cfg.FixtureDir)
	default:
		return nil, nil
	}
}

// New builds every component from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := NewStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	approvalStore, err := approvals.New(ctx, approvals.RedisOptions{
		URL:      cfg.KVURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize approval store: %w", err)
	}

	a := &App{
		Config:    cfg,
		Storage:   store,
		Approvals: approvalStore,
		Hostaway:  sources.NewHostawaySource(cfg.HostawayBaseURL, cfg.HostawayAccountID, cfg.HostawayAPIKey, cfg.UpstreamTimeout),
		Fixture:   sources.NewFixtureSource(store, cfg.FixtureName),
		Google: sources.NewGoogleSource(cfg.GooglePlacesBaseURL, cfg.GooglePlacesAPIKey, cfg.UpstreamTimeout).
			WithPlace(cfg.GooglePlaceID, cfg.GoogleListingName),
	}
	a.Service = dashboard.NewService(a.Hostaway, a.Fixture, a.Google, a.Approvals)

	if !cfg.HostawayConfigured() {
		logrus.Info("Hostaway credentials not set, serving fixture data")
	}
	return a, nil
}

// Sources lists every review source for diagnostics
func (a *App) Sources() []sources.Source {
	return []sources.Source{a.Hostaway, a.Fixture, a.Google}
}

// Close releases the approval store connection, if any
func (a *App) Close() error {
	if closer, ok := a.Approvals.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
