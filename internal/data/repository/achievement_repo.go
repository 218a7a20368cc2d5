package repository

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AchievementRepository interface {
	Unlock(ctx context.Context, achievement *entity.Achievement) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Achievement, error)
}

type achievementRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewAchievementRepository(db database.Querier, log *zap.Logger) AchievementRepository {
	return &achievementRepository{
		db:  db,
		log: log.With(zap.String("repository", "achievement")),
	}
}

// Unlock reports true only the first time a user earns a type.
func (r *achievementRepository) Unlock(ctx context.Context, a *entity.Achievement) (bool, error) {
	query := `
		INSERT INTO achievements (id, user_id, achievement_type, unlocked_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, achievement_type) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query, a.ID, a.UserID, a.Type, a.UnlockedAt, a.CreatedAt)
	if err != nil {
		r.log.Error("Failed to unlock achievement",
			zap.Error(err),
			zap.String("user_id", a.UserID.String()),
			zap.String("type", string(a.Type)),
		)
		return false, fmt.Errorf("unlock %s for user %s: %w", a.Type, a.UserID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Achievement, error) {
	query := `
		SELECT id, user_id, achievement_type, unlocked_at, created_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY unlocked_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list achievements", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list achievements for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var achievements []*entity.Achievement
	for rows.Next() {
		var a entity.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.UnlockedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan achievement row: %w", err)
		}
		achievements = append(achievements, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievement rows: %w", err)
	}

	return achievements, nil
}
