package models

import "time"

// CommunityRole is a member's privilege level inside a community
type CommunityRole string

const (
	CommunityRoleCreator   CommunityRole = "CREATOR"
	CommunityRoleAdmin     CommunityRole = "ADMIN"
	CommunityRoleModerator CommunityRole = "MODERATOR"
	CommunityRoleMember    CommunityRole = "MEMBER"
)

// IsAssignable reports whether r may be granted through a role change.
func (r CommunityRole) IsAssignable() bool {
	return r == CommunityRoleAdmin || r == CommunityRoleModerator || r == CommunityRoleMember
}

// CanManage reports whether r may change other members' roles.
func (r CommunityRole) CanManage() bool {
	return r == CommunityRoleCreator || r == CommunityRoleAdmin
}

// ChatRole maps a community role onto the role of its community chat participant.
func (r CommunityRole) ChatRole() ChatRole {
	switch r {
	case CommunityRoleCreator, CommunityRoleAdmin:
		return ChatRoleAdmin
	case CommunityRoleModerator:
		return ChatRoleModerator
	}
	return ChatRoleMember
}

// Community is a topic group ("connect") with its own chat
type Community struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatorID   int64     `json:"creatorId" db:"creator_id"`
	MemberCount int       `json:"memberCount" db:"member_count"`
	IsPrivate   bool      `json:"isPrivate" db:"is_private"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	ChatID   *int64         `json:"chatId,omitempty" db:"chat_id"`
	YourRole *CommunityRole `json:"yourRole,omitempty" db:"your_role"`
}

// CommunityMember links a user to a community
type CommunityMember struct {
	ID          int64         `json:"id" db:"id"`
	CommunityID int64         `json:"communityId" db:"community_id"`
	UserID      int64         `json:"userId" db:"user_id"`
	Role        CommunityRole `json:"role" db:"role"`
	JoinedAt    time.Time     `json:"joinedAt" db:"joined_at"`

	User *UserSummary `json:"user,omitempty" db:"-"`
}

// CommunityFilter narrows community listings
type CommunityFilter struct {
	Search string
	Offset int
	Limit  int
}
