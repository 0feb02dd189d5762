package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/events"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
)

// CommunityService manages communities ("connects") and their memberships
type CommunityService struct {
	communityRepo CommunityStore
	uploader      FileUploader
	publisher     events.Publisher
	logger        zerolog.Logger
}

// NewCommunityService creates a new CommunityService
func NewCommunityService(communityRepo CommunityStore, uploader FileUploader, publisher events.Publisher, logger zerolog.Logger) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		uploader:      uploader,
		publisher:     publisher,
		logger:        logger.With().Str("service", "community").Logger(),
	}
}

// Create makes a community with the caller as CREATOR, plus its chat
func (s *CommunityService) Create(ctx context.Context, userID int64, req *dto.CreateCommunityRequest) (*models.Community, error) {
	community := &models.Community{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		CreatorID:   userID,
		IsPrivate:   req.IsPrivate,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("communityID", community.ID).Int64("creatorID", userID).Msg("Community created")
	return community, nil
}

// List returns a page of communities with the caller's role in each
func (s *CommunityService) List(ctx context.Context, filter models.CommunityFilter, viewerID int64) ([]*models.Community, int, error) {
	return s.communityRepo.List(ctx, filter, viewerID)
}

// Mine returns the communities the caller belongs to
func (s *CommunityService) Mine(ctx context.Context, userID int64) ([]*models.Community, error) {
	return s.communityRepo.ListForUser(ctx, userID)
}

// Get returns a community with the caller's membership
func (s *CommunityService) Get(ctx context.Context, id, viewerID int64) (*models.Community, error) {
	return s.communityRepo.GetByID(ctx, id, viewerID)
}

// Join adds the caller as MEMBER and to the community chat
func (s *CommunityService) Join(ctx context.Context, userID, communityID int64) (*models.Community, error) {
	community, err := s.communityRepo.GetByID(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if community.YourRole != nil {
		return nil, apperrors.ErrAlreadyMember
	}
	if community.IsPrivate {
		return nil, apperrors.ErrPrivateCommunity
	}

	count, err := s.communityRepo.Join(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	role := models.CommunityRoleMember
	community.MemberCount = count
	community.YourRole = &role
	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member joined community")

	publish(ctx, s.publisher, s.logger, events.New(events.CommunityChannel(communityID), events.MemberJoined,
		dto.MembershipEvent{CommunityID: communityID, UserID: userID, MemberCount: count}))
	return community, nil
}

// Leave removes the caller's membership and chat participation. Creators cannot leave.
func (s *CommunityService) Leave(ctx context.Context, userID, communityID int64) error {
	count, err := s.communityRepo.Leave(ctx, communityID, userID)
	if err != nil {
		return err
	}
	s.logger.Info().Int64("communityID", communityID).Int64("userID", userID).Msg("Member left community")

	revoked := []string{events.CommunityChannel(communityID)}
	if community, err := s.communityRepo.GetByID(ctx, communityID, 0); err != nil {
		s.logger.Warn().Err(err).Int64("communityID", communityID).Msg("Failed to load community chat for revocation")
	} else if community.ChatID != nil {
		revoked = append(revoked, events.ChatChannel(*community.ChatID), events.PrivateChatChannel(*community.ChatID))
	}

	publish(ctx, s.publisher, s.logger,
		events.New(events.CommunityChannel(communityID), events.MemberLeft,
			dto.MembershipEvent{CommunityID: communityID, UserID: userID, MemberCount: count}),
		events.Revoke(userID, revoked...))
	return nil
}

// Members returns a page of a community's members
func (s *CommunityService) Members(ctx context.Context, communityID int64, offset, limit int) ([]*models.CommunityMember, int, error) {
	if _, err := s.communityRepo.GetByID(ctx, communityID, 0); err != nil {
		return nil, 0, err
	}
	return s.communityRepo.ListMembers(ctx, communityID, offset, limit)
}

// UpdateMemberRole lets a CREATOR or ADMIN change another member's role
func (s *CommunityService) UpdateMemberRole(ctx context.Context, actorID, communityID, targetID int64, role models.CommunityRole) error {
	if !role.IsAssignable() {
		return apperrors.NewBadRequestError("role must be ADMIN, MODERATOR or MEMBER")
	}
	if actorID == targetID {
		return apperrors.NewBadRequestError("cannot change your own role")
	}
	if err := s.requireManager(ctx, communityID, actorID); err != nil {
		return err
	}
	if err := s.communityRepo.UpdateMemberRole(ctx, communityID, targetID, role); err != nil {
		return err
	}
	s.logger.Info().Int64("communityID", communityID).Int64("userID", targetID).Str("role", string(role)).Msg("Member role changed")
	return nil
}

// UploadAvatar replaces the community avatar; CREATOR or ADMIN only
func (s *CommunityService) UploadAvatar(ctx context.Context, actorID, communityID int64, fh *multipart.FileHeader) (*models.Community, error) {
	if err := s.requireManager(ctx, communityID, actorID); err != nil {
		return nil, err
	}
	community, err := s.communityRepo.GetByID(ctx, communityID, actorID)
	if err != nil {
		return nil, err
	}
	previous := community.AvatarURL

	stored, err := s.uploader.Upload(ctx, filestorage.FieldCommunityAvatar, fh)
	if err != nil {
		return nil, err
	}
	if err := s.communityRepo.UpdateAvatarURL(ctx, communityID, stored.URL); err != nil {
		if rmErr := s.uploader.Remove(ctx, stored.URL); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("url", stored.URL).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}
	replaceFile(ctx, s.uploader, s.logger, previous)
	community.AvatarURL = &stored.URL
	return community, nil
}

func (s *CommunityService) requireManager(ctx context.Context, communityID, userID int64) error {
	member, err := s.communityRepo.GetMember(ctx, communityID, userID)
	if errors.Is(err, apperrors.ErrNotMember) {
		return apperrors.NewForbiddenError("only community admins can do this")
	}
	if err != nil {
		return err
	}
	if !member.Role.CanManage() {
		return apperrors.NewForbiddenError("only community admins can do this")
	}
	return nil
}
