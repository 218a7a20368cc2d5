package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// Public endpoints
	CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetTitleReviews(ctx context.Context, mediaType string, movieID int, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
	ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*response.LikeResponse, error)

	// Stats
	GetTitleReviewStats(ctx context.Context, mediaType string, movieID int) (*response.ReviewStatsResponse, error)

	// Moderation
	GetReviewsForModeration(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	SetStatus(ctx context.Context, reviewID uuid.UUID, req *request.UpdateReviewStatusRequest) (*response.ReviewResponse, error)
}

type reviewService struct {
	repo         *repository.Repository
	gamification GamificationService
	log          *zap.Logger
}

func NewReviewService(repo *repository.Repository, gamification GamificationService, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:         repo,
		gamification: gamification,
		log:          log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create review validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	mediaType := entity.MediaType(req.MediaType)

	// One review per user per title
	existing, err := s.repo.Review.FindByUserAndTitle(ctx, userID, req.MovieID, mediaType)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing review")
	}
	if existing != nil {
		return nil, fmt.Errorf("you have already reviewed this title")
	}

	now := time.Now()
	review := &entity.Review{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		MovieID:      req.MovieID,
		MediaType:    mediaType,
		Rating:       req.Rating,
		Content:      trimContent(req.Content),
		Status:       entity.ReviewApproved,
	}

	if err := s.repo.Review.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("you have already reviewed this title")
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("movie_id", req.MovieID))
		return nil, fmt.Errorf("failed to create review")
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("movie_id", req.MovieID),
		zap.Int("rating", req.Rating))

	if _, err := s.gamification.RecordActivity(ctx, userID, now); err != nil {
		s.log.Warn("Failed to record streak activity", zap.Error(err))
	}
	if _, err := s.gamification.Evaluate(ctx, userID, EventReview); err != nil {
		s.log.Warn("Review achievement evaluation failed", zap.Error(err))
	}

	return s.reload(ctx, review.ID)
}

func (s *reviewService) GetTitleReviews(ctx context.Context, mediaType string, movieID int, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if !entity.MediaType(mediaType).Valid() || movieID <= 0 {
		return nil, fmt.Errorf("invalid title")
	}

	reviews, err := s.repo.Review.ListByTitle(ctx, movieID, entity.MediaType(mediaType), req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews")
	}

	total, err := s.repo.Review.CountByTitle(ctx, movieID, entity.MediaType(mediaType))
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews")
	}

	return response.NewPaginatedResponse(toReviewResponses(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	reviews, err := s.repo.Review.ListByUser(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews")
	}

	total, err := s.repo.Review.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews")
	}

	return response.NewPaginatedResponse(toReviewResponses(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	review, err := s.ownedReview(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Content != nil {
		review.Content = trimContent(req.Content)
	}
	review.UpdatedAt = time.Now()

	if err := s.repo.Review.Update(ctx, review); err != nil {
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to update review")
	}

	return s.reload(ctx, reviewID)
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	if _, err := s.ownedReview(ctx, reviewID, userID); err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID.String()))
		return fmt.Errorf("failed to delete review")
	}

	s.log.Info("Review deleted", zap.String("review_id", reviewID.String()), zap.String("user_id", userID.String()))
	return nil
}

// ToggleLike likes or unlikes a review and keeps like_count in step within
// one transaction.
func (s *reviewService) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (*response.LikeResponse, error) {
	var result response.LikeResponse

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		review, err := tx.Review.FindByID(ctx, reviewID)
		if err != nil {
			return err
		}
		if review == nil || review.Status != entity.ReviewApproved {
			return fmt.Errorf("review not found")
		}
		if review.UserID == userID {
			return fmt.Errorf("cannot like your own review")
		}

		removed, err := tx.ReviewLike.Delete(ctx, userID, reviewID)
		if err != nil {
			return err
		}

		delta := -1
		if !removed {
			created, err := tx.ReviewLike.Create(ctx, &entity.ReviewLike{
				BaseSimple: entity.NewBaseSimple(time.Now()),
				UserID:     userID,
				ReviewID:   reviewID,
			})
			if err != nil {
				return err
			}
			delta = 0
			if created {
				delta = 1
			}
		}

		count := review.LikeCount
		if delta != 0 {
			count, err = tx.Review.AdjustLikeCount(ctx, reviewID, delta)
			if err != nil {
				return err
			}
		}

		result = response.LikeResponse{Liked: !removed, LikeCount: count}
		return nil
	})
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		s.log.Error("Failed to toggle like", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to toggle like")
	}

	return &result, nil
}

func (s *reviewService) GetTitleReviewStats(ctx context.Context, mediaType string, movieID int) (*response.ReviewStatsResponse, error) {
	if !entity.MediaType(mediaType).Valid() || movieID <= 0 {
		return nil, fmt.Errorf("invalid title")
	}

	stats, err := s.repo.Review.GetTitleStats(ctx, movieID, entity.MediaType(mediaType))
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats")
	}

	return &response.ReviewStatsResponse{
		AverageRating: roundTo(stats.Average, 1),
		TotalReviews:  stats.Count,
	}, nil
}

// GetReviewsForModeration lists reviews with the given status, or all of
// them when status is empty.
func (s *reviewService) GetReviewsForModeration(ctx context.Context, status string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	st := entity.ReviewStatus(status)
	if status != "" && !st.Valid() {
		return nil, fmt.Errorf("invalid review status %q", status)
	}

	reviews, err := s.repo.Review.ListByStatus(ctx, st, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews")
	}

	total, err := s.repo.Review.CountByStatus(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews")
	}

	return response.NewPaginatedResponse(toReviewResponses(reviews), req.Page, req.Limit(), total), nil
}

func (s *reviewService) SetStatus(ctx context.Context, reviewID uuid.UUID, req *request.UpdateReviewStatusRequest) (*response.ReviewResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if err := s.repo.Review.UpdateStatus(ctx, reviewID, entity.ReviewStatus(req.Status)); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("review not found")
		}
		s.log.Error("Failed to update review status", zap.Error(err), zap.String("review_id", reviewID.String()))
		return nil, fmt.Errorf("failed to update review status")
	}

	s.log.Info("Review moderated",
		zap.String("review_id", reviewID.String()),
		zap.String("status", req.Status))

	return s.reload(ctx, reviewID)
}

// ==================== HELPER METHODS ====================

func (s *reviewService) ownedReview(ctx context.Context, reviewID, userID uuid.UUID) (*entity.Review, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review")
	}
	if review == nil {
		return nil, fmt.Errorf("review not found")
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("not allowed to modify this review")
	}
	return review, nil
}

func (s *reviewService) reload(ctx context.Context, reviewID uuid.UUID) (*response.ReviewResponse, error) {
	review, err := s.repo.Review.FindByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review")
	}
	if review == nil {
		return nil, fmt.Errorf("review not found")
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func toReviewResponses(reviews []*entity.Review) []response.ReviewResponse {
	out := make([]response.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, response.ReviewToResponse(r))
	}
	return out
}

func trimContent(content *string) *string {
	if content == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*content)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
