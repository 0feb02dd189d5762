package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

// AdminService backs the ADMIN-only moderation endpoints
type AdminService struct {
	userRepo    UserStore
	tokenRepo   TokenStore
	companyRepo CompanyStore
	jobRepo     JobStore
	statsRepo   StatsStore
	logger      zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo UserStore,
	tokenRepo TokenStore,
	companyRepo CompanyStore,
	jobRepo JobStore,
	statsRepo StatsStore,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		statsRepo:   statsRepo,
		logger:      logger.With().Str("service", "admin").Logger(),
	}
}

// Stats returns platform counters
func (s *AdminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	return s.statsRepo.Stats(ctx)
}

// ListUsers returns a page of accounts
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	return s.userRepo.List(ctx, filter)
}

// SetUserActive enables or disables an account. Disabling revokes its refresh tokens.
func (s *AdminService) SetUserActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error) {
	if actor.ID == userID && !active {
		return nil, apperrors.NewBadRequestError("you cannot deactivate your own account")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	if !active {
		if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	user.IsActive = active
	s.logger.Info().Int64("adminID", actor.ID).Int64("userID", userID).Bool("active", active).Msg("User status changed")
	return user, nil
}

// ListCompanies returns a page of companies, optionally by verification state
func (s *AdminService) ListCompanies(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error) {
	return s.companyRepo.List(ctx, filter)
}

// VerifyCompany sets the verification flag of a company
func (s *AdminService) VerifyCompany(ctx context.Context, actor models.Actor, companyID int64, verified bool) (*models.Company, error) {
	if err := s.companyRepo.SetVerified(ctx, companyID, verified); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("adminID", actor.ID).Int64("companyID", companyID).Bool("verified", verified).Msg("Company verification changed")
	return s.companyRepo.GetByID(ctx, companyID)
}

// DeleteJob removes any job
func (s *AdminService) DeleteJob(ctx context.Context, actor models.Actor, jobID int64) error {
	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return err
	}
	s.logger.Info().Int64("adminID", actor.ID).Int64("jobID", jobID).Msg("Job removed by admin")
	return nil
}
