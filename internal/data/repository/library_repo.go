package repository

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/entity"
	"movie-discovery/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleKey identifies a catalog title for one user list.
type TitleKey struct {
	MovieID   int
	MediaType entity.MediaType
}

// LibraryRepository backs both favorites and watchlist. The two share a row
// shape and differ only by table.
type LibraryRepository interface {
	Toggle(ctx context.Context, item *entity.LibraryItem) (inList bool, err error)
	Exists(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (bool, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.LibraryItem, error)
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	Keys(ctx context.Context, userID uuid.UUID) ([]TitleKey, error)
}

type libraryRepository struct {
	db    database.Querier
	table string
	log   *zap.Logger
}

func NewLibraryRepository(db database.Querier, kind entity.ListKind, log *zap.Logger) LibraryRepository {
	table := "favorites"
	if kind == entity.ListWatchlist {
		table = "watchlist"
	}

	return &libraryRepository{
		db:    db,
		table: table,
		log:   log.With(zap.String("repository", table)),
	}
}

// Toggle removes the item when present, otherwise inserts it. The insert
// ignores conflicts so a concurrent add cannot produce a duplicate row.
func (r *libraryRepository) Toggle(ctx context.Context, item *entity.LibraryItem) (bool, error) {
	deleteQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1 AND movie_id = $2 AND media_type = $3
	`, r.table)

	result, err := r.db.Exec(ctx, deleteQuery, item.UserID, item.MovieID, item.MediaType)
	if err != nil {
		r.log.Error("Failed to remove item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.Int("movie_id", item.MovieID),
		)
		return false, fmt.Errorf("remove %s item %d: %w", r.table, item.MovieID, err)
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, movie_id, media_type, title, poster_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, movie_id, media_type) DO NOTHING
	`, r.table)

	_, err = r.db.Exec(ctx, insertQuery,
		item.ID,
		item.UserID,
		item.MovieID,
		item.MediaType,
		item.Title,
		item.PosterPath,
		item.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to add item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.Int("movie_id", item.MovieID),
		)
		return false, fmt.Errorf("add %s item %d: %w", r.table, item.MovieID, err)
	}

	return true, nil
}

func (r *libraryRepository) Exists(ctx context.Context, userID uuid.UUID, movieID int, mediaType entity.MediaType) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s WHERE user_id = $1 AND movie_id = $2 AND media_type = $3
		)
	`, r.table)

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, movieID, mediaType).Scan(&exists); err != nil {
		r.log.Error("Failed to check item", zap.Error(err), zap.Int("movie_id", movieID))
		return false, fmt.Errorf("check %s item %d: %w", r.table, movieID, err)
	}

	return exists, nil
}

func (r *libraryRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.LibraryItem, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, movie_id, media_type, title, poster_path, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, r.table)

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to list items", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("list %s for user %s: %w", r.table, userID.String(), err)
	}
	defer rows.Close()

	var items []*entity.LibraryItem
	for rows.Next() {
		var item entity.LibraryItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.MovieID,
			&item.MediaType,
			&item.Title,
			&item.PosterPath,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", r.table, err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", r.table, err)
	}

	return items, nil
}

func (r *libraryRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1`, r.table)

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count items", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("count %s for user %s: %w", r.table, userID.String(), err)
	}

	return count, nil
}

func (r *libraryRepository) Keys(ctx context.Context, userID uuid.UUID) ([]TitleKey, error) {
	query := fmt.Sprintf(`SELECT movie_id, media_type FROM %s WHERE user_id = $1`, r.table)
	return queryKeys(ctx, r.db, r.table, query, userID)
}

func queryKeys(ctx context.Context, db database.Querier, table, query string, userID uuid.UUID) ([]TitleKey, error) {
	rows, err := db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("keys %s for user %s: %w", table, userID.String(), err)
	}

	keys, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TitleKey, error) {
		var k TitleKey
		err := row.Scan(&k.MovieID, &k.MediaType)
		return k, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect %s keys: %w", table, err)
	}

	return keys, nil
}
