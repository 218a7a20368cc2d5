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

type CreditRepository interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	LockBalance(ctx context.Context, userID uuid.UUID) (int, error)
	SetBalance(ctx context.Context, userID uuid.UUID, balance int) error
	CreateTransaction(ctx context.Context, tx *entity.CreditTransaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error)
	CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error)
	SumIssued(ctx context.Context) (int64, error)
}

type creditRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCreditRepository(db database.Querier, log *zap.Logger) CreditRepository {
	return &creditRepository{
		db:  db,
		log: log.With(zap.String("repository", "credit")),
	}
}

// GetBalance returns 0 for users without a balance row.
func (r *creditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, `SELECT balance FROM credit_balances WHERE user_id = $1`, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to get balance", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("get balance for user %s: %w", userID.String(), err)
	}

	return balance, nil
}

// LockBalance ensures the balance row exists and locks it for the
// surrounding transaction.
func (r *creditRepository) LockBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	_, err := r.db.Exec(ctx, `
		INSERT INTO credit_balances (user_id, balance, updated_at)
		VALUES ($1, 0, NOW())
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		r.log.Error("Failed to ensure balance row", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("ensure balance for user %s: %w", userID.String(), err)
	}

	var balance int
	err = r.db.QueryRow(ctx,
		`SELECT balance FROM credit_balances WHERE user_id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		r.log.Error("Failed to lock balance", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("lock balance for user %s: %w", userID.String(), err)
	}

	return balance, nil
}

func (r *creditRepository) SetBalance(ctx context.Context, userID uuid.UUID, balance int) error {
	result, err := r.db.Exec(ctx,
		`UPDATE credit_balances SET balance = $2, updated_at = NOW() WHERE user_id = $1`, userID, balance)
	if err != nil {
		r.log.Error("Failed to set balance", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("set balance for user %s: %w", userID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("balance for user %s not found", userID.String())
	}

	return nil
}

func (r *creditRepository) CreateTransaction(ctx context.Context, t *entity.CreditTransaction) error {
	query := `
		INSERT INTO credit_transactions (id, user_id, amount, transaction_type, description,
		                                 reference_id, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Amount,
		t.Type,
		t.Description,
		t.ReferenceID,
		t.BalanceAfter,
		t.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create credit transaction",
			zap.Error(err),
			zap.String("user_id", t.UserID.String()),
			zap.Int("amount", t.Amount),
		)
		return fmt.Errorf("create credit transaction for user %s: %w", t.UserID.String(), err)
	}

	return nil
}

func (r *creditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.CreditTransaction, error) {
	query := `
		SELECT id, user_id, amount, transaction_type, description, reference_id, balance_after, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list transactions", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list transactions for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var txs []*entity.CreditTransaction
	for rows.Next() {
		var t entity.CreditTransaction
		if err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Amount,
			&t.Type,
			&t.Description,
			&t.ReferenceID,
			&t.BalanceAfter,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}

func (r *creditRepository) CountTransactions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM credit_transactions WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count transactions", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count transactions for user %s: %w", userID.String(), err)
	}

	return count, nil
}

// SumIssued totals every positive ledger entry.
func (r *creditRepository) SumIssued(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::bigint FROM credit_transactions WHERE amount > 0`).Scan(&total)
	if err != nil {
		r.log.Error("Failed to sum issued credits", zap.Error(err))
		return 0, fmt.Errorf("sum issued credits: %w", err)
	}

	return total, nil
}
