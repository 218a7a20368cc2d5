package usecase

import (
	"context"
	"fmt"

	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/response"

	"go.uber.org/zap"
)

type AdminService interface {
	GetDashboardStats(ctx context.Context) (*response.DashboardStats, error)
	PurgeCatalogCache(ctx context.Context) (*response.PurgeResponse, error)
}

type adminService struct {
	repo    *repository.Repository
	catalog CatalogClient
	log     *zap.Logger
}

func NewAdminService(repo *repository.Repository, client CatalogClient, log *zap.Logger) AdminService {
	return &adminService{
		repo:    repo,
		catalog: client,
		log:     log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*response.DashboardStats, error) {
	stats := &response.DashboardStats{ReviewsByStatus: map[string]int64{}}
	var err error

	if stats.TotalUsers, err = s.repo.User.CountAll(ctx); err != nil {
		return nil, s.statsError("users", err)
	}

	byStatus, err := s.repo.Review.CountGroupedByStatus(ctx)
	if err != nil {
		return nil, s.statsError("reviews", err)
	}
	for status, n := range byStatus {
		stats.ReviewsByStatus[string(status)] = n
		stats.TotalReviews += n
	}

	if stats.TotalRedemptions, err = s.repo.Redemption.CountAll(ctx); err != nil {
		return nil, s.statsError("redemptions", err)
	}
	if stats.CreditsIssued, err = s.repo.Credit.SumIssued(ctx); err != nil {
		return nil, s.statsError("credits", err)
	}
	if stats.ActiveCodes, err = s.repo.RechargeCode.CountActive(ctx); err != nil {
		return nil, s.statsError("codes", err)
	}

	return stats, nil
}

// PurgeCatalogCache drops every cached catalog response so clients pick up
// fresh upstream data on their next request.
func (s *adminService) PurgeCatalogCache(ctx context.Context) (*response.PurgeResponse, error) {
	purged, err := s.catalog.PurgeCache(ctx)
	if err != nil {
		s.log.Error("Failed to purge catalog cache", zap.Error(err))
		return nil, fmt.Errorf("failed to purge catalog cache")
	}

	s.log.Info("Catalog cache purged", zap.Int64("keys", purged))
	return &response.PurgeResponse{Purged: purged}, nil
}

func (s *adminService) statsError(part string, err error) error {
	s.log.Error("Failed to load dashboard stats", zap.String("part", part), zap.Error(err))
	return fmt.Errorf("failed to load dashboard stats")
}
