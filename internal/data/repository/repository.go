package repository

import (
	"context"
	"errors"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Transactor runs fn with a repository set bound to a single transaction.
// Returning an error from fn rolls everything back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Favorite     LibraryRepository
	Watchlist    LibraryRepository
	History      HistoryRepository
	Review       ReviewRepository
	ReviewLike   ReviewLikeRepository
	Achievement  AchievementRepository
	Streak       StreakRepository
	Credit       CreditRepository
	RechargeCode RechargeCodeRepository
	Redemption   RedemptionRepository

	Tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositorySet(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log}
	return repo
}

func newRepositorySet(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Favorite:     NewLibraryRepository(db, entity.ListFavorites, log),
		Watchlist:    NewLibraryRepository(db, entity.ListWatchlist, log),
		History:      NewHistoryRepository(db, log),
		Review:       NewReviewRepository(db, log),
		ReviewLike:   NewReviewLikeRepository(db, log),
		Achievement:  NewAchievementRepository(db, log),
		Streak:       NewStreakRepository(db, log),
		Credit:       NewCreditRepository(db, log),
		RechargeCode: NewRechargeCodeRepository(db, log),
		Redemption:   NewRedemptionRepository(db, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		txRepo := newRepositorySet(tx, t.log)
		// nested calls reuse the open transaction
		txRepo.Tx = sameTx{repo: txRepo}
		return fn(txRepo)
	})
}

type sameTx struct {
	repo *Repository
}

func (s sameTx) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return fn(s.repo)
}

// IsUniqueViolation reports whether err comes from a unique constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
