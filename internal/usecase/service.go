package usecase

import (
	"movie-discovery/internal/data/repository"
	"movie-discovery/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth           AuthService
	User           UserService
	Catalog        CatalogService
	Library        LibraryService
	Review         ReviewService
	Gamification   GamificationService
	Credit         CreditService
	Recommendation RecommendationService
	Admin          AdminService
}

func NewService(repo *repository.Repository, client CatalogClient, config *utils.Config, log *zap.Logger) *Service {
	gamification := NewGamificationService(repo, log)

	return &Service{
		Auth:           NewAuthService(repo, config, log),
		User:           NewUserService(repo.User, repo.Session, log),
		Catalog:        NewCatalogService(client, log),
		Library:        NewLibraryService(repo, gamification, log),
		Review:         NewReviewService(repo, gamification, log),
		Gamification:   gamification,
		Credit:         NewCreditService(repo, gamification, log),
		Recommendation: NewRecommendationService(repo, client, config.TMDB, log),
		Admin:          NewAdminService(repo, client, log),
	}
}
