package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
)

// UserService manages profiles and profile uploads
type UserService struct {
	userRepo UserStore
	uploader FileUploader
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo UserStore, uploader FileUploader, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		uploader: uploader,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// GetProfile returns a user's public profile
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Headline != nil {
		user.Headline = req.Headline
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.ExperienceYears != nil {
		user.ExperienceYears = *req.ExperienceYears
	}
	if req.Location != nil {
		user.Location = req.Location
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	s.logger.Info().Int64("userID", userID).Msg("Profile updated")
	return user, nil
}

// UploadAvatar stores a new avatar and drops the previous one
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.User, error) {
	return s.replaceUpload(ctx, userID, filestorage.FieldAvatar, fh,
		func(u *models.User) *string { return u.AvatarURL },
		func(u *models.User, url string) { u.AvatarURL = &url },
		s.userRepo.UpdateAvatarURL)
}

// UploadResume stores a new resume and drops the previous one
func (s *UserService) UploadResume(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.User, error) {
	return s.replaceUpload(ctx, userID, filestorage.FieldResume, fh,
		func(u *models.User) *string { return u.ResumeURL },
		func(u *models.User, url string) { u.ResumeURL = &url },
		s.userRepo.UpdateResumeURL)
}

func (s *UserService) replaceUpload(
	ctx context.Context,
	userID int64,
	field string,
	fh *multipart.FileHeader,
	current func(*models.User) *string,
	assign func(*models.User, string),
	save func(context.Context, int64, string) error,
) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := current(user)

	stored, err := s.uploader.Upload(ctx, field, fh)
	if err != nil {
		return nil, err
	}
	if err := save(ctx, userID, stored.URL); err != nil {
		if rmErr := s.uploader.Remove(ctx, stored.URL); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("url", stored.URL).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	replaceFile(ctx, s.uploader, s.logger, previous)
	assign(user, stored.URL)
	s.logger.Info().Int64("userID", userID).Str("field", field).Msg("Profile file uploaded")
	return user, nil
}
