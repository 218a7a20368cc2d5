package usecase

import (
	"context"
	"errors"

	"movie-discovery/internal/catalog"

	"go.uber.org/zap"
)

// CatalogClient is the subset of the TMDb client the services depend on.
type CatalogClient interface {
	Trending(ctx context.Context, mediaType, window string, page int) (*catalog.Page, error)
	List(ctx context.Context, mediaType, category string, page int) (*catalog.Page, error)
	Genres(ctx context.Context, mediaType string) ([]catalog.Genre, error)
	Search(ctx context.Context, mediaType, query string, page int) (*catalog.Page, error)
	Details(ctx context.Context, mediaType string, id int) (*catalog.Details, error)
	Videos(ctx context.Context, mediaType string, id int) ([]catalog.Video, error)
	WatchProviders(ctx context.Context, mediaType string, id int) (map[string]catalog.RegionProviders, error)
	Discover(ctx context.Context, mediaType string, genreIDs []int, sortBy string, page int) (*catalog.Page, error)
	PurgeCache(ctx context.Context) (int64, error)
}

// CatalogService fronts the catalog client for HTTP handlers. Listing
// endpoints degrade to an empty page when the upstream is unavailable;
// single-title lookups report the failure.
type CatalogService interface {
	Trending(ctx context.Context, mediaType, window string, page int) (*catalog.Page, error)
	List(ctx context.Context, mediaType, category string, page int) (*catalog.Page, error)
	Genres(ctx context.Context, mediaType string) ([]catalog.Genre, error)
	Search(ctx context.Context, mediaType, query string, page int) (*catalog.Page, error)
	Discover(ctx context.Context, mediaType string, genreIDs []int, sortBy string, page int) (*catalog.Page, error)
	Details(ctx context.Context, mediaType string, id int) (*catalog.Details, error)
	Videos(ctx context.Context, mediaType string, id int) ([]catalog.Video, error)
	WatchProviders(ctx context.Context, mediaType string, id int) (map[string]catalog.RegionProviders, error)
}

type catalogService struct {
	client CatalogClient
	log    *zap.Logger
}

func NewCatalogService(client CatalogClient, log *zap.Logger) CatalogService {
	return &catalogService{
		client: client,
		log:    log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Trending(ctx context.Context, mediaType, window string, page int) (*catalog.Page, error) {
	p, err := s.client.Trending(ctx, mediaType, window, page)
	return s.degrade("trending", p, page, err)
}

func (s *catalogService) List(ctx context.Context, mediaType, category string, page int) (*catalog.Page, error) {
	p, err := s.client.List(ctx, mediaType, category, page)
	return s.degrade(mediaType+"/"+category, p, page, err)
}

func (s *catalogService) Genres(ctx context.Context, mediaType string) ([]catalog.Genre, error) {
	genres, err := s.client.Genres(ctx, mediaType)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			return nil, err
		}
		s.log.Warn("Genre list unavailable", zap.String("media_type", mediaType), zap.Error(err))
		return []catalog.Genre{}, nil
	}
	return genres, nil
}

func (s *catalogService) Search(ctx context.Context, mediaType, query string, page int) (*catalog.Page, error) {
	p, err := s.client.Search(ctx, mediaType, query, page)
	return s.degrade("search", p, page, err)
}

func (s *catalogService) Discover(ctx context.Context, mediaType string, genreIDs []int, sortBy string, page int) (*catalog.Page, error) {
	p, err := s.client.Discover(ctx, mediaType, genreIDs, sortBy, page)
	return s.degrade("discover", p, page, err)
}

func (s *catalogService) Details(ctx context.Context, mediaType string, id int) (*catalog.Details, error) {
	return s.client.Details(ctx, mediaType, id)
}

func (s *catalogService) Videos(ctx context.Context, mediaType string, id int) ([]catalog.Video, error) {
	videos, err := s.client.Videos(ctx, mediaType, id)
	if err != nil {
		return nil, err
	}
	if videos == nil {
		videos = []catalog.Video{}
	}
	return videos, nil
}

func (s *catalogService) WatchProviders(ctx context.Context, mediaType string, id int) (map[string]catalog.RegionProviders, error) {
	providers, err := s.client.WatchProviders(ctx, mediaType, id)
	if err != nil {
		return nil, err
	}
	if providers == nil {
		providers = map[string]catalog.RegionProviders{}
	}
	return providers, nil
}

// degrade turns an upstream failure into an empty page. Bad input is still
// reported to the caller.
func (s *catalogService) degrade(listing string, p *catalog.Page, page int, err error) (*catalog.Page, error) {
	if err == nil {
		if p.Results == nil {
			p.Results = []catalog.Title{}
		}
		return p, nil
	}
	if errors.Is(err, catalog.ErrInvalidInput) {
		return nil, err
	}

	s.log.Warn("Catalog listing unavailable, serving empty page",
		zap.String("listing", listing),
		zap.Error(err))

	if page < 1 {
		page = 1
	}
	return &catalog.Page{Page: page, Results: []catalog.Title{}}, nil
}
