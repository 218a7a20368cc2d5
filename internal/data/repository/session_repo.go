package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// Resolve returns nil when the token is unknown, revoked or expired, or
	// when its account is inactive or deleted.
	Resolve(ctx context.Context, token uuid.UUID) (*entity.Principal, error)
	Revoke(ctx context.Context, token uuid.UUID) (bool, error)
	RevokeForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

type sessionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSessionRepository(db database.Querier, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token, user_agent, ip_address, expires_at, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		session.Client.UserAgent,
		session.Client.IPAddress,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID.String()),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *sessionRepository) Resolve(ctx context.Context, token uuid.UUID) (*entity.Principal, error) {
	query := `
		SELECT s.user_id, u.role, s.token, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
		  AND s.revoked_at IS NULL
		  AND s.expires_at > NOW()
		  AND u.is_active
		  AND u.deleted_at IS NULL
	`

	var p entity.Principal
	err := r.db.QueryRow(ctx, query, token).Scan(&p.UserID, &p.Role, &p.Token, &p.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to resolve session", zap.Error(err))
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	return &p, nil
}

// Revoke reports false when the token was unknown or already revoked.
func (r *sessionRepository) Revoke(ctx context.Context, token uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE token = $1 AND revoked_at IS NULL`, token)
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err))
		return false, fmt.Errorf("failed to revoke session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *sessionRepository) RevokeForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		r.log.Error("Failed to revoke user sessions",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

// Prune deletes sessions that expired or were revoked more than retention ago.
func (r *sessionRepository) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at < $1
		   OR revoked_at < $1
	`

	result, err := r.db.Exec(ctx, query, time.Now().Add(-retention))
	if err != nil {
		r.log.Error("Failed to prune sessions", zap.Error(err))
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}

	return result.RowsAffected(), nil
}
