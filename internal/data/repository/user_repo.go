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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string) error
	UpdatePreferences(ctx context.Context, id uuid.UUID, genreIDs []int, onboardingCompleted bool) error
	UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error
	MergePremiumBenefits(ctx context.Context, id uuid.UUID, benefits map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `
	id, email, password, display_name, avatar_url, genre_preferences,
	onboarding_completed, is_premium, premium_benefits, role, is_active,
	created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&user.GenrePreferences,
		&user.OnboardingCompleted,
		&user.IsPremium,
		&user.PremiumBenefits,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password, display_name, avatar_url, genre_preferences,
		                  onboarding_completed, is_premium, premium_benefits, role, is_active,
		                  created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	genres := user.GenrePreferences
	if genres == nil {
		genres = []int{}
	}
	benefits := user.PremiumBenefits
	if benefits == nil {
		benefits = map[string]any{}
	}

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
		genres,
		user.OnboardingCompleted,
		user.IsPremium,
		benefits,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll retrieves paginated list of users
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := ur.db.Query(ctx, query, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`

	var count int64
	if err := ur.db.QueryRow(ctx, query).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string) error {
	query := `
		UPDATE users
		SET display_name = $2, avatar_url = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	return ur.execOne(ctx, "update profile", id, query, id, displayName, avatarURL)
}

func (ur *userRepository) UpdatePreferences(ctx context.Context, id uuid.UUID, genreIDs []int, onboardingCompleted bool) error {
	query := `
		UPDATE users
		SET genre_preferences = $2,
		    onboarding_completed = onboarding_completed OR $3,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	if genreIDs == nil {
		genreIDs = []int{}
	}
	return ur.execOne(ctx, "update preferences", id, query, id, genreIDs, onboardingCompleted)
}

func (ur *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entity.UserRole) error {
	query := `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	return ur.execOne(ctx, "update role", id, query, id, role)
}

// MergePremiumBenefits marks the user premium and shallow-merges benefits into
// the stored bag, new keys winning.
func (ur *userRepository) MergePremiumBenefits(ctx context.Context, id uuid.UUID, benefits map[string]any) error {
	query := `
		UPDATE users
		SET is_premium = TRUE,
		    premium_benefits = COALESCE(premium_benefits, '{}'::jsonb) || $2::jsonb,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	return ur.execOne(ctx, "merge premium benefits", id, query, id, benefits)
}

func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), is_active = FALSE WHERE id = $1 AND deleted_at IS NULL`

	if err := ur.execOne(ctx, "delete user", id, query, id); err != nil {
		return err
	}

	ur.log.Info("User deleted", zap.String("id", id.String()))
	return nil
}

func (ur *userRepository) execOne(ctx context.Context, op string, id uuid.UUID, query string, args ...any) error {
	result, err := ur.db.Exec(ctx, query, args...)
	if err != nil {
		ur.log.Error("Failed to "+op,
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("%s %s: %w", op, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found", id.String())
	}

	return nil
}
