package dto

import "github.com/yigit/hireboard/internal/app/models"

// CreateCommunityRequest creates a community and its chat
type CreateCommunityRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100" example:"Gophers Berlin"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPrivate   bool    `json:"isPrivate"`
}

// UpdateMemberRoleRequest changes a member's community role
type UpdateMemberRoleRequest struct {
	Role models.CommunityRole `json:"role" binding:"required,oneof=ADMIN MODERATOR MEMBER"`
}

// MembershipEvent is the payload of member:joined and member:left events
type MembershipEvent struct {
	CommunityID int64 `json:"communityId"`
	UserID      int64 `json:"userId"`
	MemberCount int   `json:"memberCount"`
}
