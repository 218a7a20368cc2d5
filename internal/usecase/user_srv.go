package usecase

import (
	"context"
	"fmt"
	"strings"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	SetGenrePreferences(ctx context.Context, userID uuid.UUID, req *request.GenrePreferencesRequest) (*response.UserResponse, error)
	CompleteOnboarding(ctx context.Context, userID uuid.UUID, req *request.GenrePreferencesRequest) (*response.UserResponse, error)

	// Admin
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
	SetRole(ctx context.Context, actorID, userID uuid.UUID, req *request.UpdateRoleRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	log         *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		log:         log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, fmt.Errorf("validation failed: DisplayName: This field is required")
	}

	if err := us.userRepo.UpdateProfile(ctx, userID, displayName, req.AvatarURL); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	return us.GetProfile(ctx, userID)
}

func (us *userService) SetGenrePreferences(ctx context.Context, userID uuid.UUID, req *request.GenrePreferencesRequest) (*response.UserResponse, error) {
	return us.savePreferences(ctx, userID, req, false)
}

// CompleteOnboarding stores the picked genres and flips the onboarding flag.
func (us *userService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, req *request.GenrePreferencesRequest) (*response.UserResponse, error) {
	return us.savePreferences(ctx, userID, req, true)
}

func (us *userService) savePreferences(ctx context.Context, userID uuid.UUID, req *request.GenrePreferencesRequest, onboarding bool) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if err := us.userRepo.UpdatePreferences(ctx, userID, req.GenreIDs, onboarding); err != nil {
		us.log.Error("Failed to save genre preferences", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to save preferences")
	}

	us.log.Info("Genre preferences saved",
		zap.String("user_id", userID.String()),
		zap.Ints("genre_ids", req.GenreIDs),
		zap.Bool("onboarding", onboarding))

	return us.GetProfile(ctx, userID)
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := us.userRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err))
		return nil, fmt.Errorf("failed to get users")
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to count users")
	}

	out := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, response.UserToResponse(u))
	}

	return response.NewPaginatedResponse(out, req.Page, req.Limit(), total), nil
}

// DeleteUser soft-deletes the account and revokes its sessions.
func (us *userService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return fmt.Errorf("cannot delete your own account from the admin panel")
	}

	if _, err := us.findUser(ctx, userID); err != nil {
		return err
	}

	if err := us.userRepo.Delete(ctx, userID); err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to delete user")
	}

	if _, err := us.sessionRepo.RevokeForUser(ctx, userID); err != nil {
		us.log.Warn("Failed to revoke sessions of deleted user", zap.Error(err), zap.String("user_id", userID.String()))
	}

	us.log.Info("User deleted by admin",
		zap.String("admin_id", actorID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

func (us *userService) SetRole(ctx context.Context, actorID, userID uuid.UUID, req *request.UpdateRoleRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	role := entity.UserRole(req.Role)
	if actorID == userID && role != entity.RoleAdmin {
		return nil, fmt.Errorf("cannot remove your own admin role")
	}

	if _, err := us.findUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := us.userRepo.UpdateRole(ctx, userID, role); err != nil {
		us.log.Error("Failed to update role", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update role")
	}

	us.log.Info("User role changed",
		zap.String("admin_id", actorID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", req.Role))

	return us.GetProfile(ctx, userID)
}

func (us *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get user")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}
