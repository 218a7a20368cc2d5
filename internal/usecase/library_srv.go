package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LibraryService interface {
	Toggle(ctx context.Context, userID uuid.UUID, kind entity.ListKind, req *request.LibraryItemRequest) (*response.ToggleResponse, error)
	List(ctx context.Context, userID uuid.UUID, kind entity.ListKind, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LibraryItemResponse], error)
	Status(ctx context.Context, userID uuid.UUID, kind entity.ListKind, mediaType string, movieID int) (*response.ToggleResponse, error)

	RecordHistory(ctx context.Context, userID uuid.UUID, req *request.LibraryItemRequest) error
	ListHistory(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HistoryResponse], error)
	ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error)
}

type libraryService struct {
	repo         *repository.Repository
	gamification GamificationService
	log          *zap.Logger
}

func NewLibraryService(repo *repository.Repository, gamification GamificationService, log *zap.Logger) LibraryService {
	return &libraryService{
		repo:         repo,
		gamification: gamification,
		log:          log.With(zap.String("service", "library")),
	}
}

func (s *libraryService) list(kind entity.ListKind) (repository.LibraryRepository, error) {
	switch kind {
	case entity.ListFavorites:
		return s.repo.Favorite, nil
	case entity.ListWatchlist:
		return s.repo.Watchlist, nil
	}
	return nil, fmt.Errorf("invalid list %q", kind)
}

// Toggle flips membership of a title: present items are removed, absent
// ones added.
func (s *libraryService) Toggle(ctx context.Context, userID uuid.UUID, kind entity.ListKind, req *request.LibraryItemRequest) (*response.ToggleResponse, error) {
	repo, err := s.list(kind)
	if err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	item := &entity.LibraryItem{
		BaseSimple: entity.NewBaseSimple(time.Now()),
		UserID:     userID,
		MovieID:    req.MovieID,
		MediaType:  entity.MediaType(req.MediaType),
		Title:      req.Title,
		PosterPath: req.PosterPath,
	}

	inList, err := repo.Toggle(ctx, item)
	if err != nil {
		s.log.Error("Failed to toggle list item",
			zap.Error(err),
			zap.String("list", string(kind)),
			zap.String("user_id", userID.String()),
			zap.Int("movie_id", req.MovieID))
		return nil, fmt.Errorf("failed to update %s", kind)
	}

	if inList && kind == entity.ListFavorites {
		if _, err := s.gamification.Evaluate(ctx, userID, EventFavorite); err != nil {
			s.log.Warn("Favorite achievement evaluation failed", zap.Error(err))
		}
	}

	return &response.ToggleResponse{InList: inList}, nil
}

func (s *libraryService) List(ctx context.Context, userID uuid.UUID, kind entity.ListKind, req *request.PaginatedRequest) (*response.PaginatedResponse[response.LibraryItemResponse], error) {
	repo, err := s.list(kind)
	if err != nil {
		return nil, err
	}

	items, err := repo.List(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list items", zap.Error(err), zap.String("list", string(kind)))
		return nil, fmt.Errorf("failed to get %s", kind)
	}

	total, err := repo.Count(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count items", zap.Error(err), zap.String("list", string(kind)))
		return nil, fmt.Errorf("failed to get %s", kind)
	}

	out := make([]response.LibraryItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, response.LibraryItemToResponse(item))
	}

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}

func (s *libraryService) Status(ctx context.Context, userID uuid.UUID, kind entity.ListKind, mediaType string, movieID int) (*response.ToggleResponse, error) {
	repo, err := s.list(kind)
	if err != nil {
		return nil, err
	}
	if !entity.MediaType(mediaType).Valid() || movieID <= 0 {
		return nil, fmt.Errorf("invalid title")
	}

	exists, err := repo.Exists(ctx, userID, movieID, entity.MediaType(mediaType))
	if err != nil {
		s.log.Error("Failed to check list item", zap.Error(err), zap.String("list", string(kind)))
		return nil, fmt.Errorf("failed to get %s status", kind)
	}

	return &response.ToggleResponse{InList: exists}, nil
}

// RecordHistory upserts a watch entry; it also counts as streak activity.
func (s *libraryService) RecordHistory(ctx context.Context, userID uuid.UUID, req *request.LibraryItemRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	entry := &entity.WatchHistory{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		MovieID:    req.MovieID,
		MediaType:  entity.MediaType(req.MediaType),
		Title:      req.Title,
		PosterPath: req.PosterPath,
		WatchedAt:  now,
	}

	if err := s.repo.History.Upsert(ctx, entry); err != nil {
		s.log.Error("Failed to record history", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to record history")
	}

	if _, err := s.gamification.RecordActivity(ctx, userID, now); err != nil {
		s.log.Warn("Failed to record streak activity", zap.Error(err))
	}
	if _, err := s.gamification.Evaluate(ctx, userID, EventHistory); err != nil {
		s.log.Warn("History achievement evaluation failed", zap.Error(err))
	}

	return nil
}

func (s *libraryService) ListHistory(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.HistoryResponse], error) {
	entries, err := s.repo.History.List(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list history", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get history")
	}

	total, err := s.repo.History.Count(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count history", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get history")
	}

	out := make([]response.HistoryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, response.HistoryToResponse(e))
	}

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}

func (s *libraryService) ClearHistory(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.History.Clear(ctx, userID)
	if err != nil {
		s.log.Error("Failed to clear history", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("failed to clear history")
	}
	return n, nil
}
