package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByUserAndTitle(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (*entity.Review, error)
	ListByTitle(ctx context.Context, movieID int, mediaType entity.MediaType, limit, offset int) ([]*entity.Review, error)
	CountByTitle(ctx context.Context, movieID int, mediaType entity.MediaType) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListByStatus(ctx context.Context, status entity.ReviewStatus, limit, offset int) ([]*entity.Review, error)
	CountByStatus(ctx context.Context, status entity.ReviewStatus) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error
	AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries
	GetTitleStats(ctx context.Context, movieID int, mediaType entity.MediaType) (*entity.ReviewStats, error)
	CountGroupedByStatus(ctx context.Context) (map[entity.ReviewStatus]int64, error)
}

type reviewRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReviewRepository(db database.Querier, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewSelect = `
	SELECT r.id, r.user_id, r.movie_id, r.media_type, r.rating, r.content, r.status,
	       r.like_count, r.created_at, r.updated_at, COALESCE(u.display_name, '')
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id`

func scanReview(row scanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.MediaType,
		&review.Rating,
		&review.Content,
		&review.Status,
		&review.LikeCount,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.AuthorName,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, movie_id, media_type, rating, content, status,
		                     like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.MovieID,
		review.MediaType,
		review.Rating,
		review.Content,
		review.Status,
		review.LikeCount,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.Int("movie_id", review.MovieID),
		)
		return fmt.Errorf("create review for %s %d by user %s: %w",
			review.MediaType, review.MovieID, review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", id.String()))
		return nil, fmt.Errorf("find review %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByUserAndTitle(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (*entity.Review, error) {
	query := reviewSelect + ` WHERE r.user_id = $1 AND r.movie_id = $2 AND r.media_type = $3`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, movieID, mediaType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find user review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("movie_id", movieID),
		)
		return nil, fmt.Errorf("find review by user %s for %s %d: %w", userID.String(), mediaType, movieID, err)
	}

	return review, nil
}

// ListByTitle returns approved reviews, newest first.
func (r *reviewRepository) ListByTitle(ctx context.Context, movieID int, mediaType entity.MediaType, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE r.movie_id = $1 AND r.media_type = $2 AND r.status = 'approved'
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4
	`

	return r.list(ctx, "list reviews by title", query, movieID, mediaType, limit, offset)
}

func (r *reviewRepository) CountByTitle(ctx context.Context, movieID int, mediaType entity.MediaType) (int64, error) {
	query := `
		SELECT COUNT(*) FROM reviews
		WHERE movie_id = $1 AND media_type = $2 AND status = 'approved'
	`

	return r.count(ctx, "count reviews by title", query, movieID, mediaType)
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, "list reviews by user", query, userID, limit, offset)
}

func (r *reviewRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, "count reviews by user", `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID)
}

// ListByStatus lists reviews for moderation. An empty status lists all.
func (r *reviewRepository) ListByStatus(ctx context.Context, status entity.ReviewStatus, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, "list reviews by status", query, string(status), limit, offset)
}

func (r *reviewRepository) CountByStatus(ctx context.Context, status entity.ReviewStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE ($1 = '' OR status = $1)`

	return r.count(ctx, "count reviews by status", query, string(status))
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, content = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Content,
		review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", review.ID.String()))
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", review.ID.String())
	}

	return nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error {
	query := `UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update review status", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("update review status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

// AdjustLikeCount applies delta and returns the new count, never below zero.
func (r *reviewRepository) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	query := `
		UPDATE reviews
		SET like_count = GREATEST(like_count + $2, 0)
		WHERE id = $1
		RETURNING like_count
	`

	var count int
	err := r.db.QueryRow(ctx, query, id, delta).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("review %s not found", id.String())
	}
	if err != nil {
		r.log.Error("Failed to adjust like count", zap.Error(err), zap.String("review_id", id.String()))
		return 0, fmt.Errorf("adjust like count %s: %w", id.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", id.String()))
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s not found", id.String())
	}

	return nil
}

// GetTitleStats averages approved ratings for a title.
func (r *reviewRepository) GetTitleStats(ctx context.Context, movieID int, mediaType entity.MediaType) (*entity.ReviewStats, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*)
		FROM reviews
		WHERE movie_id = $1 AND media_type = $2 AND status = 'approved'
	`

	var stats entity.ReviewStats
	if err := r.db.QueryRow(ctx, query, movieID, mediaType).Scan(&stats.Average, &stats.Count); err != nil {
		r.log.Error("Failed to get review stats", zap.Error(err), zap.Int("movie_id", movieID))
		return nil, fmt.Errorf("get review stats for %s %d: %w", mediaType, movieID, err)
	}

	return &stats, nil
}

func (r *reviewRepository) CountGroupedByStatus(ctx context.Context) (map[entity.ReviewStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM reviews GROUP BY status`)
	if err != nil {
		r.log.Error("Failed to count reviews by status", zap.Error(err))
		return nil, fmt.Errorf("count reviews grouped by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.ReviewStatus]int64)
	for rows.Next() {
		var status entity.ReviewStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan review status count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review status counts: %w", err)
	}

	return counts, nil
}

func (r *reviewRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) count(ctx context.Context, op, query string, args ...any) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
