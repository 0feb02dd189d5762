// Package auth decides who may observe which realtime channel.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/hireboard/internal/pkg/events"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

// MembershipChecker answers participation questions for channel authorization
type MembershipChecker interface {
	IsParticipant(ctx context.Context, chatID, userID int64) (bool, error)
}

// CommunityChecker answers community membership questions
type CommunityChecker interface {
	IsMember(ctx context.Context, communityID, userID int64) (bool, error)
}

// AuthorizationService handles channel authorization
type AuthorizationService struct {
	chats       MembershipChecker
	communities CommunityChecker
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(chats MembershipChecker, communities CommunityChecker) *AuthorizationService {
	return &AuthorizationService{
		chats:       chats,
		communities: communities,
	}
}

// CanSubscribe reports whether userID may receive events published on channel.
// Malformed channel names are denied without error.
func (s *AuthorizationService) CanSubscribe(ctx context.Context, userID int64, channel string) (bool, error) {
	kind, id, err := events.ParseChannel(channel)
	if err != nil {
		if errors.Is(err, events.ErrInvalidChannel) {
			return false, nil
		}
		return false, err
	}

	switch kind {
	case events.KindUser:
		return id == userID, nil
	case events.KindChat, events.KindPrivateChat:
		ok, err := s.chats.IsParticipant(ctx, id, userID)
		if err != nil {
			logger.Error().Err(err).Int64("chatID", id).Int64("userID", userID).Msg("Error checking chat participation")
			return false, fmt.Errorf("error checking chat participation: %w", err)
		}
		return ok, nil
	case events.KindCommunity:
		ok, err := s.communities.IsMember(ctx, id, userID)
		if err != nil {
			logger.Error().Err(err).Int64("communityID", id).Int64("userID", userID).Msg("Error checking community membership")
			return false, fmt.Errorf("error checking community membership: %w", err)
		}
		return ok, nil
	}
	return false, nil
}
