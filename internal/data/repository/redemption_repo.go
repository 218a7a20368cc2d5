package repository

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RedemptionRepository interface {
	Exists(ctx context.Context, codeID, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, redemption *entity.CodeRedemption) error
	CountAll(ctx context.Context) (int64, error)
}

type redemptionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRedemptionRepository(db database.Querier, log *zap.Logger) RedemptionRepository {
	return &redemptionRepository{
		db:  db,
		log: log.With(zap.String("repository", "code_redemption")),
	}
}

func (r *redemptionRepository) Exists(ctx context.Context, codeID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM code_redemptions WHERE code_id = $1 AND user_id = $2)`,
		codeID, userID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check redemption",
			zap.Error(err),
			zap.String("code_id", codeID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check redemption of %s by %s: %w", codeID.String(), userID.String(), err)
	}

	return exists, nil
}

// Create relies on the (code_id, user_id) unique constraint as the last
// guard against double redemption.
func (r *redemptionRepository) Create(ctx context.Context, red *entity.CodeRedemption) error {
	query := `
		INSERT INTO code_redemptions (id, code_id, user_id, credits_added, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, red.ID, red.CodeID, red.UserID, red.CreditsAdded, red.CreatedAt)
	if err != nil {
		r.log.Error("Failed to record redemption",
			zap.Error(err),
			zap.String("code_id", red.CodeID.String()),
			zap.String("user_id", red.UserID.String()),
		)
		return fmt.Errorf("create redemption of %s by %s: %w", red.CodeID.String(), red.UserID.String(), err)
	}

	return nil
}

func (r *redemptionRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM code_redemptions`).Scan(&count); err != nil {
		r.log.Error("Failed to count redemptions", zap.Error(err))
		return 0, fmt.Errorf("count redemptions: %w", err)
	}
	return count, nil
}
