package repository

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HistoryRepository interface {
	Upsert(ctx context.Context, entry *entity.WatchHistory) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchHistory, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	Keys(ctx context.Context, userID uuid.UUID) ([]TitleKey, error)
}

type historyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewHistoryRepository(db database.Querier, log *zap.Logger) HistoryRepository {
	return &historyRepository{
		db:  db,
		log: log.With(zap.String("repository", "watch_history")),
	}
}

// Upsert records a view; re-watching a title only moves watched_at forward.
func (r *historyRepository) Upsert(ctx context.Context, entry *entity.WatchHistory) error {
	query := `
		INSERT INTO watch_history (id, user_id, movie_id, media_type, title, poster_path, watched_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, movie_id, media_type)
		DO UPDATE SET watched_at = EXCLUDED.watched_at,
		              title = EXCLUDED.title,
		              poster_path = COALESCE(EXCLUDED.poster_path, watch_history.poster_path)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.MovieID,
		entry.MediaType,
		entry.Title,
		entry.PosterPath,
		entry.WatchedAt,
		entry.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to record history",
			zap.Error(err),
			zap.String("user_id", entry.UserID.String()),
			zap.Int("movie_id", entry.MovieID),
		)
		return fmt.Errorf("upsert history %d for user %s: %w", entry.MovieID, entry.UserID.String(), err)
	}

	return nil
}

func (r *historyRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.WatchHistory, error) {
	query := `
		SELECT id, user_id, movie_id, media_type, title, poster_path, watched_at, created_at
		FROM watch_history
		WHERE user_id = $1
		ORDER BY watched_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list history", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list history for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var entries []*entity.WatchHistory
	for rows.Next() {
		var e entity.WatchHistory
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.MovieID,
			&e.MediaType,
			&e.Title,
			&e.PosterPath,
			&e.WatchedAt,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return entries, nil
}

func (r *historyRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM watch_history WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count history", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count history for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *historyRepository) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM watch_history WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Error("Failed to clear history", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("clear history for user %s: %w", userID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *historyRepository) Keys(ctx context.Context, userID uuid.UUID) ([]TitleKey, error) {
	return queryKeys(ctx, r.db, "watch_history",
		`SELECT movie_id, media_type FROM watch_history WHERE user_id = $1`, userID)
}
