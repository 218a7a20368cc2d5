package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
	CleanupSessions(ctx context.Context) (int64, error)
}

const (
	sessionRetention = 7 * 24 * time.Hour
	maxUserAgentLen  = 512
)

type authService struct {
	repo   *repository.Repository // grouping userRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// 2. Check email is free
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 4. Create user
	now := time.Now()
	user := &entity.User{
		Base:             entity.NewBase(now),
		Email:            email,
		PasswordHash:     hashedPassword,
		DisplayName:      strings.TrimSpace(req.DisplayName),
		GenrePreferences: []int{},
		PremiumBenefits:  map[string]any{},
		Role:             entity.RoleUser,
		IsActive:         true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("email already registered")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create account")
	}

	// 5. Sign in right away
	session, err := s.createSession(ctx, user.ID, req.Client)
	if err != nil {
		s.log.Error("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}

	// 5. Create session
	session, err := s.createSession(ctx, user.ID, req.Client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return fmt.Errorf("invalid token format")
	}

	revoked, err := s.repo.Session.Revoke(ctx, tokenUUID)
	if err != nil {
		return fmt.Errorf("failed to logout")
	}
	if !revoked {
		s.log.Debug("Logout of an already revoked session")
	}

	s.log.Info("User logged out")
	return nil
}

// Session returns the user behind the current session.
func (s *authService) Session(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load session user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get session")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// Authenticate resolves a bearer token to an active user for endpoints that
// answer outside the standard middleware chain.
func (s *authService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session token")
	}

	principal, err := s.repo.Session.Resolve(ctx, tokenUUID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to validate session")
	}
	if principal == nil {
		return uuid.Nil, fmt.Errorf("invalid session token")
	}

	return principal.UserID, nil
}

// CleanupSessions deletes sessions that ended more than a week ago.
func (s *authService) CleanupSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.Prune(ctx, sessionRetention)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Expired sessions removed", zap.Int64("count", n))
	}
	return n, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client entity.ClientInfo) (*entity.Session, error) {
	expiry := time.Duration(s.config.Session.ExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		Token:      uuid.New(),
		Client:     truncateClient(client),
		ExpiresAt:  now.Add(expiry),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func truncateClient(c entity.ClientInfo) entity.ClientInfo {
	if len(c.UserAgent) > maxUserAgentLen {
		c.UserAgent = c.UserAgent[:maxUserAgentLen]
	}
	return c
}
