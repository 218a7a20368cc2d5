package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"

	"movie-discovery/internal/catalog"
	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRecommendationLimit = 20

type RecommendationService interface {
	For(ctx context.Context, userID uuid.UUID, limit int) (*response.RecommendationResponse, error)
}

type recommendationService struct {
	repo    *repository.Repository
	catalog CatalogClient
	pages   int
	maxLen  int
	shuffle func(n int, swap func(i, j int))
	log     *zap.Logger
}

func NewRecommendationService(repo *repository.Repository, client CatalogClient, cfg utils.TMDBConfig, log *zap.Logger) RecommendationService {
	pages := cfg.AggregatePages
	if pages < 1 {
		pages = 1
	}

	return &recommendationService{
		repo:    repo,
		catalog: client,
		pages:   pages,
		maxLen:  cfg.AggregateMaxLen,
		shuffle: rand.Shuffle,
		log:     log.With(zap.String("service", "recommendation")),
	}
}

// For recommends movies from the user's preferred genres, skipping titles
// already in their favorites, watchlist or history. Users without
// preferences, or whose preferences yield nothing new, get a shuffled
// selection of popular movies.
func (s *recommendationService) For(ctx context.Context, userID uuid.UUID, limit int) (*response.RecommendationResponse, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if s.maxLen > 0 && limit > s.maxLen {
		limit = s.maxLen
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	seen, err := s.seenTitles(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load library keys", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get recommendations")
	}

	if len(user.GenrePreferences) > 0 {
		titles, err := catalog.FetchPages(ctx, func(ctx context.Context, page int) (*catalog.Page, error) {
			return s.catalog.Discover(ctx, string(entity.MediaMovie), user.GenrePreferences, "popularity.desc", page)
		}, s.pages, 0)
		if err != nil {
			s.log.Warn("Genre discovery failed, using fallback", zap.Error(err))
		}

		picked := exclude(titles, seen, limit)
		if len(picked) > 0 {
			return &response.RecommendationResponse{Source: response.SourceGenres, Results: picked}, nil
		}
	}

	return s.fallback(ctx, seen, limit)
}

func (s *recommendationService) fallback(ctx context.Context, seen map[repository.TitleKey]struct{}, limit int) (*response.RecommendationResponse, error) {
	titles, err := catalog.FetchPages(ctx, func(ctx context.Context, page int) (*catalog.Page, error) {
		return s.catalog.List(ctx, string(entity.MediaMovie), "popular", page)
	}, s.pages, 0)
	if err != nil {
		s.log.Warn("Popular fallback unavailable", zap.Error(err))
		titles = nil
	}

	pool := exclude(titles, seen, 0)
	if len(pool) == 0 {
		pool = titles
	}
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > limit {
		pool = pool[:limit]
	}
	if pool == nil {
		pool = []catalog.Title{}
	}

	return &response.RecommendationResponse{Source: response.SourceFallback, Results: pool}, nil
}

func (s *recommendationService) seenTitles(ctx context.Context, userID uuid.UUID) (map[repository.TitleKey]struct{}, error) {
	seen := make(map[repository.TitleKey]struct{})
	sources := []func(context.Context, uuid.UUID) ([]repository.TitleKey, error){
		s.repo.Favorite.Keys,
		s.repo.Watchlist.Keys,
		s.repo.History.Keys,
	}
	for _, keys := range sources {
		list, err := keys(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, k := range list {
			seen[k] = struct{}{}
		}
	}
	return seen, nil
}

// exclude drops movies present in seen and truncates to limit (0 means all).
func exclude(titles []catalog.Title, seen map[repository.TitleKey]struct{}, limit int) []catalog.Title {
	out := make([]catalog.Title, 0, len(titles))
	for _, t := range titles {
		if _, ok := seen[repository.TitleKey{MovieID: t.ID, MediaType: entity.MediaMovie}]; ok {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
