package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
	"github.com/yigit/hireboard/internal/pkg/notify"
)

// CompanyService manages employer profiles
type CompanyService struct {
	companyRepo CompanyStore
	jobRepo     JobStore
	userRepo    UserStore
	uploader    FileUploader
	notifier    notify.Notifier
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(
	companyRepo CompanyStore,
	jobRepo JobStore,
	userRepo UserStore,
	uploader FileUploader,
	notifier notify.Notifier,
	logger zerolog.Logger,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		notifier:    notifier,
		logger:      logger.With().Str("service", "company").Logger(),
	}
}

// Create registers the caller's company. A user owns at most one company.
func (s *CompanyService) Create(ctx context.Context, actor models.Actor, req *dto.CreateCompanyRequest) (*models.Company, error) {
	if actor.Role != models.RoleCompany {
		return nil, apperrors.NewForbiddenError("only company accounts can create a company")
	}
	if _, err := s.companyRepo.GetByOwner(ctx, actor.ID); err == nil {
		return nil, apperrors.ErrCompanyExists
	} else if !errors.Is(err, apperrors.ErrCompanyNotFound) {
		return nil, err
	}

	company := &models.Company{
		OwnerID:     actor.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Website:     req.Website,
		Industry:    req.Industry,
		Size:        req.Size,
		Location:    req.Location,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("companyID", company.ID).Int64("ownerID", actor.ID).Msg("Company registered")

	if s.notifier != nil {
		owner, err := s.userRepo.GetByID(ctx, actor.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("ownerID", actor.ID).Msg("Failed to load company owner for alert")
		} else if err := s.notifier.CompanyRegistered(ctx, company, owner); err != nil {
			s.logger.Warn().Err(err).Int64("companyID", company.ID).Msg("Failed to send company alert")
		}
	}
	return company, nil
}

// Get returns a company with its active job count
func (s *CompanyService) Get(ctx context.Context, id int64) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// Mine returns the caller's company
func (s *CompanyService) Mine(ctx context.Context, userID int64) (*models.Company, error) {
	return s.companyRepo.GetByOwner(ctx, userID)
}

// List returns a page of companies
func (s *CompanyService) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error) {
	return s.companyRepo.List(ctx, filter)
}

// UpdateMine applies the non-nil fields of req to the caller's company
func (s *CompanyService) UpdateMine(ctx context.Context, userID int64, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	company, err := s.companyRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		company.Description = req.Description
	}
	if req.Website != nil {
		company.Website = req.Website
	}
	if req.Industry != nil {
		company.Industry = req.Industry
	}
	if req.Size != nil {
		company.Size = req.Size
	}
	if req.Location != nil {
		company.Location = req.Location
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("error updating company: %w", err)
	}
	return company, nil
}

// UploadLogo replaces the logo of the caller's company
func (s *CompanyService) UploadLogo(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.Company, error) {
	company, err := s.companyRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := company.LogoURL

	stored, err := s.uploader.Upload(ctx, filestorage.FieldLogo, fh)
	if err != nil {
		return nil, err
	}
	if err := s.companyRepo.UpdateLogoURL(ctx, company.ID, stored.URL); err != nil {
		if rmErr := s.uploader.Remove(ctx, stored.URL); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("url", stored.URL).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}
	replaceFile(ctx, s.uploader, s.logger, previous)
	company.LogoURL = &stored.URL
	return company, nil
}

// ListJobs returns the ACTIVE jobs of a company
func (s *CompanyService) ListJobs(ctx context.Context, companyID int64, offset, limit int) ([]*models.Job, int, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, 0, err
	}
	jobs, total, err := s.jobRepo.List(ctx, models.JobFilter{
		CompanyID: &companyID,
		Statuses:  []models.JobStatus{models.JobStatusActive},
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, err
	}
	for _, job := range jobs {
		job.Company = company
	}
	return jobs, total, nil
}
