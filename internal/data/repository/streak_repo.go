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

type StreakRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Streak, error)
	FindByUserForUpdate(ctx context.Context, userID uuid.UUID) (*entity.Streak, error)
	Save(ctx context.Context, streak *entity.Streak) error
}

type streakRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStreakRepository(db database.Querier, log *zap.Logger) StreakRepository {
	return &streakRepository{
		db:  db,
		log: log.With(zap.String("repository", "streak")),
	}
}

const streakSelect = `
	SELECT user_id, current_streak, longest_streak, last_activity_date, updated_at
	FROM streaks
	WHERE user_id = $1`

func (r *streakRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*entity.Streak, error) {
	return r.find(ctx, streakSelect, userID)
}

// FindByUserForUpdate locks the row for the surrounding transaction.
func (r *streakRepository) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) (*entity.Streak, error) {
	return r.find(ctx, streakSelect+` FOR UPDATE`, userID)
}

func (r *streakRepository) find(ctx context.Context, query string, userID uuid.UUID) (*entity.Streak, error) {
	var s entity.Streak
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.CurrentStreak,
		&s.LongestStreak,
		&s.LastActivityDate,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find streak", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find streak for user %s: %w", userID.String(), err)
	}

	return &s, nil
}

func (r *streakRepository) Save(ctx context.Context, s *entity.Streak) error {
	query := `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_activity_date, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET current_streak = EXCLUDED.current_streak,
		    longest_streak = EXCLUDED.longest_streak,
		    last_activity_date = EXCLUDED.last_activity_date,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastActivityDate, s.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to save streak", zap.Error(err), zap.String("user_id", s.UserID.String()))
		return fmt.Errorf("save streak for user %s: %w", s.UserID.String(), err)
	}

	return nil
}
