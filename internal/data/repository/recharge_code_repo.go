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

type RechargeCodeRepository interface {
	Create(ctx context.Context, code *entity.RechargeCode) error
	FindByCode(ctx context.Context, code string) (*entity.RechargeCode, error)
	FindByCodeForUpdate(ctx context.Context, code string) (*entity.RechargeCode, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.RechargeCode, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	IncrementUses(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type rechargeCodeRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRechargeCodeRepository(db database.Querier, log *zap.Logger) RechargeCodeRepository {
	return &rechargeCodeRepository{
		db:  db,
		log: log.With(zap.String("repository", "recharge_code")),
	}
}

const rechargeCodeSelect = `
	SELECT id, code, credit_amount, benefits, max_uses, current_uses, expires_at,
	       is_active, created_by, created_at, updated_at
	FROM recharge_codes`

func scanRechargeCode(row scanner) (*entity.RechargeCode, error) {
	var c entity.RechargeCode
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.CreditAmount,
		&c.Benefits,
		&c.MaxUses,
		&c.CurrentUses,
		&c.ExpiresAt,
		&c.IsActive,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *rechargeCodeRepository) Create(ctx context.Context, c *entity.RechargeCode) error {
	query := `
		INSERT INTO recharge_codes (id, code, credit_amount, benefits, max_uses, current_uses,
		                            expires_at, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	benefits := c.Benefits
	if benefits == nil {
		benefits = map[string]any{}
	}

	_, err := r.db.Exec(ctx, query,
		c.ID,
		c.Code,
		c.CreditAmount,
		benefits,
		c.MaxUses,
		c.CurrentUses,
		c.ExpiresAt,
		c.IsActive,
		c.CreatedBy,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create recharge code", zap.Error(err), zap.String("code", c.Code))
		return fmt.Errorf("create recharge code %s: %w", c.Code, err)
	}

	return nil
}

func (r *rechargeCodeRepository) FindByCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	return r.find(ctx, rechargeCodeSelect+` WHERE code = $1`, code)
}

// FindByCodeForUpdate locks the code row so concurrent redemptions serialize.
func (r *rechargeCodeRepository) FindByCodeForUpdate(ctx context.Context, code string) (*entity.RechargeCode, error) {
	return r.find(ctx, rechargeCodeSelect+` WHERE code = $1 FOR UPDATE`, code)
}

func (r *rechargeCodeRepository) find(ctx context.Context, query, code string) (*entity.RechargeCode, error) {
	c, err := scanRechargeCode(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find recharge code", zap.Error(err), zap.String("code", code))
		return nil, fmt.Errorf("find recharge code %s: %w", code, err)
	}

	return c, nil
}

func (r *rechargeCodeRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.RechargeCode, error) {
	rows, err := r.db.Query(ctx, rechargeCodeSelect+`
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.log.Error("Failed to list recharge codes", zap.Error(err))
		return nil, fmt.Errorf("list recharge codes: %w", err)
	}
	defer rows.Close()

	var codes []*entity.RechargeCode
	for rows.Next() {
		c, err := scanRechargeCode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recharge code row: %w", err)
		}
		codes = append(codes, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recharge code rows: %w", err)
	}

	return codes, nil
}

func (r *rechargeCodeRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM recharge_codes`).Scan(&count); err != nil {
		r.log.Error("Failed to count recharge codes", zap.Error(err))
		return 0, fmt.Errorf("count recharge codes: %w", err)
	}
	return count, nil
}

// CountActive counts codes that can still be redeemed by someone.
func (r *rechargeCodeRepository) CountActive(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM recharge_codes
		WHERE is_active
		  AND (expires_at IS NULL OR expires_at > NOW())
		  AND (max_uses IS NULL OR current_uses < max_uses)
	`

	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.log.Error("Failed to count active recharge codes", zap.Error(err))
		return 0, fmt.Errorf("count active recharge codes: %w", err)
	}
	return count, nil
}

func (r *rechargeCodeRepository) IncrementUses(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE recharge_codes SET current_uses = current_uses + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to increment code uses", zap.Error(err), zap.String("code_id", id.String()))
		return fmt.Errorf("increment uses for code %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("recharge code %s not found", id.String())
	}

	return nil
}

func (r *rechargeCodeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE recharge_codes SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to deactivate code", zap.Error(err), zap.String("code_id", id.String()))
		return fmt.Errorf("deactivate code %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("recharge code %s not found", id.String())
	}

	return nil
}
