package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-discovery/internal/data/entity"
	"movie-discovery/internal/data/repository"
	"movie-discovery/internal/dto/request"
	"movie-discovery/internal/dto/response"
	"movie-discovery/pkg/metrics"
	"movie-discovery/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCodeRequired        = errors.New("code is required")
	ErrCodeNotFound        = errors.New("redemption code not found")
	ErrCodeInactive        = errors.New("redemption code is inactive")
	ErrCodeExpired         = errors.New("redemption code has expired")
	ErrCodeUsageLimit      = errors.New("redemption code usage limit reached")
	ErrCodeAlreadyRedeemed = errors.New("you have already redeemed this code")
)

type CreditService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*response.BalanceResponse, error)
	GetTransactions(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error)
	Redeem(ctx context.Context, userID uuid.UUID, code string) (*response.RedeemResponse, error)

	// Admin
	CreateCode(ctx context.Context, adminID uuid.UUID, req *request.CreateCodeRequest) (*response.RechargeCodeResponse, error)
	GetAllCodes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RechargeCodeResponse], error)
	DeactivateCode(ctx context.Context, codeID uuid.UUID) error
}

type creditService struct {
	repo         *repository.Repository
	gamification GamificationService
	log          *zap.Logger
	now          func() time.Time
}

func NewCreditService(repo *repository.Repository, gamification GamificationService, log *zap.Logger) CreditService {
	return &creditService{
		repo:         repo,
		gamification: gamification,
		log:          log.With(zap.String("service", "credit")),
		now:          time.Now,
	}
}

func (s *creditService) GetBalance(ctx context.Context, userID uuid.UUID) (*response.BalanceResponse, error) {
	balance, err := s.repo.Credit.GetBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance")
	}
	return &response.BalanceResponse{Balance: balance}, nil
}

func (s *creditService) GetTransactions(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TransactionResponse], error) {
	txs, err := s.repo.Credit.ListTransactions(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions")
	}

	total, err := s.repo.Credit.CountTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions")
	}

	data := make([]response.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		data = append(data, response.TransactionToResponse(t))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// Redeem applies a recharge code to the user's balance. The code row and the
// balance row are locked for the whole transaction, so concurrent attempts
// serialize and a failed step leaves nothing behind.
func (s *creditService) Redeem(ctx context.Context, userID uuid.UUID, code string) (*response.RedeemResponse, error) {
	code = utils.NormalizeCode(code)
	if code == "" {
		metrics.Redemptions.WithLabelValues("rejected").Inc()
		return nil, ErrCodeRequired
	}

	var result response.RedeemResponse

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		rc, err := tx.RechargeCode.FindByCodeForUpdate(ctx, code)
		if err != nil {
			return err
		}
		if rc == nil {
			return ErrCodeNotFound
		}
		if !rc.IsActive {
			return ErrCodeInactive
		}
		now := s.now()
		if rc.Expired(now) {
			return ErrCodeExpired
		}
		if rc.Exhausted() {
			return ErrCodeUsageLimit
		}

		redeemed, err := tx.Redemption.Exists(ctx, rc.ID, userID)
		if err != nil {
			return err
		}
		if redeemed {
			return ErrCodeAlreadyRedeemed
		}

		balance, err := tx.Credit.LockBalance(ctx, userID)
		if err != nil {
			return err
		}
		newBalance := balance + rc.CreditAmount

		if err := tx.Credit.SetBalance(ctx, userID, newBalance); err != nil {
			return err
		}

		redemption := &entity.CodeRedemption{
			BaseSimple:   entity.NewBaseSimple(now),
			CodeID:       rc.ID,
			UserID:       userID,
			CreditsAdded: rc.CreditAmount,
		}
		if err := tx.Redemption.Create(ctx, redemption); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrCodeAlreadyRedeemed
			}
			return err
		}

		if err := tx.RechargeCode.IncrementUses(ctx, rc.ID); err != nil {
			return err
		}

		codeID := rc.ID
		if err := tx.Credit.CreateTransaction(ctx, &entity.CreditTransaction{
			BaseSimple:   entity.NewBaseSimple(now),
			UserID:       userID,
			Amount:       rc.CreditAmount,
			Type:         entity.TransactionRedemption,
			Description:  fmt.Sprintf("Redeemed code %s", rc.Code),
			ReferenceID:  &codeID,
			BalanceAfter: newBalance,
		}); err != nil {
			return err
		}

		if len(rc.Benefits) > 0 {
			if err := tx.User.MergePremiumBenefits(ctx, userID, rc.Benefits); err != nil {
				return err
			}
		}

		benefits := rc.Benefits
		if benefits == nil {
			benefits = map[string]any{}
		}
		result = response.RedeemResponse{
			CreditsAdded: rc.CreditAmount,
			NewBalance:   newBalance,
			Benefits:     benefits,
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCodeNotFound):
			metrics.Redemptions.WithLabelValues("not_found").Inc()
		case isRedeemRejection(err):
			metrics.Redemptions.WithLabelValues("rejected").Inc()
		default:
			metrics.Redemptions.WithLabelValues("error").Inc()
			s.log.Error("Failed to redeem code", zap.Error(err), zap.String("user_id", userID.String()))
			return nil, fmt.Errorf("failed to redeem code")
		}
		s.log.Info("Redemption rejected",
			zap.String("user_id", userID.String()),
			zap.String("reason", err.Error()))
		return nil, err
	}

	metrics.Redemptions.WithLabelValues("success").Inc()
	s.log.Info("Code redeemed",
		zap.String("user_id", userID.String()),
		zap.Int("credits_added", result.CreditsAdded),
		zap.Int("new_balance", result.NewBalance))

	if _, err := s.gamification.Evaluate(ctx, userID, EventRedemption); err != nil {
		s.log.Warn("Redemption achievement evaluation failed", zap.Error(err))
	}

	return &result, nil
}

func (s *creditService) CreateCode(ctx context.Context, adminID uuid.UUID, req *request.CreateCodeRequest) (*response.RechargeCodeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	code := utils.NormalizeCode(req.Code)
	if code == "" {
		generated, err := utils.GenerateRechargeCode()
		if err != nil {
			s.log.Error("Failed to generate code", zap.Error(err))
			return nil, fmt.Errorf("failed to generate code")
		}
		code = generated
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("invalid expires_at: must be in the future")
	}

	now := s.now()
	createdBy := adminID
	rc := &entity.RechargeCode{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		Code:         code,
		CreditAmount: req.CreditAmount,
		Benefits:     req.Benefits,
		MaxUses:      req.MaxUses,
		ExpiresAt:    req.ExpiresAt,
		IsActive:     true,
		CreatedBy:    &createdBy,
	}

	if err := s.repo.RechargeCode.Create(ctx, rc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("code %s already exists", code)
		}
		s.log.Error("Failed to create code", zap.Error(err))
		return nil, fmt.Errorf("failed to create code")
	}

	s.log.Info("Recharge code created",
		zap.String("code_id", rc.ID.String()),
		zap.Int("credit_amount", rc.CreditAmount),
		zap.String("created_by", adminID.String()))

	resp := response.RechargeCodeToResponse(rc)
	return &resp, nil
}

func (s *creditService) GetAllCodes(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RechargeCodeResponse], error) {
	codes, err := s.repo.RechargeCode.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to get codes")
	}

	total, err := s.repo.RechargeCode.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count codes")
	}

	data := make([]response.RechargeCodeResponse, 0, len(codes))
	for _, c := range codes {
		data = append(data, response.RechargeCodeToResponse(c))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *creditService) DeactivateCode(ctx context.Context, codeID uuid.UUID) error {
	if err := s.repo.RechargeCode.Deactivate(ctx, codeID); err != nil {
		if isClientError(err) {
			return ErrCodeNotFound
		}
		s.log.Error("Failed to deactivate code", zap.Error(err), zap.String("code_id", codeID.String()))
		return fmt.Errorf("failed to deactivate code")
	}

	s.log.Info("Recharge code deactivated", zap.String("code_id", codeID.String()))
	return nil
}

func isRedeemRejection(err error) bool {
	return errors.Is(err, ErrCodeRequired) ||
		errors.Is(err, ErrCodeInactive) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrCodeUsageLimit) ||
		errors.Is(err, ErrCodeAlreadyRedeemed)
}
