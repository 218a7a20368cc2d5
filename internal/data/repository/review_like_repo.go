package repository

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewLikeRepository interface {
	Create(ctx context.Context, like *entity.ReviewLike) (bool, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error)
}

type reviewLikeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewLikeRepository(db database.Querier, log *zap.Logger) ReviewLikeRepository {
	return &reviewLikeRepository{
		db:  db,
		log: log.With(zap.String("repository", "review_like")),
	}
}

// Create reports false when the like already existed.
func (r *reviewLikeRepository) Create(ctx context.Context, like *entity.ReviewLike) (bool, error) {
	query := `
		INSERT INTO review_likes (id, user_id, review_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, review_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, like.ID, like.UserID, like.ReviewID, like.CreatedAt)
	if err != nil {
		r.log.Error("Failed to like review",
			zap.Error(err),
			zap.String("user_id", like.UserID.String()),
			zap.String("review_id", like.ReviewID.String()),
		)
		return false, fmt.Errorf("like review %s: %w", like.ReviewID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *reviewLikeRepository) Delete(ctx context.Context, userID, reviewID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM review_likes WHERE user_id = $1 AND review_id = $2`, userID, reviewID)
	if err != nil {
		r.log.Error("Failed to unlike review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("review_id", reviewID.String()),
		)
		return false, fmt.Errorf("unlike review %s: %w", reviewID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
