package models

import "time"

// ChatType distinguishes one-to-one chats from community chats
type ChatType string

const (
	ChatTypeDirect    ChatType = "DIRECT"
	ChatTypeCommunity ChatType = "COMMUNITY"
)

// ChatRole is a participant's privilege level inside a chat
type ChatRole string

const (
	ChatRoleAdmin     ChatRole = "ADMIN"
	ChatRoleModerator ChatRole = "MODERATOR"
	ChatRoleMember    ChatRole = "MEMBER"
)

// Chat is a conversation between participants
type Chat struct {
	ID          int64     `json:"id" db:"id"`
	Type        ChatType  `json:"type" db:"type"`
	Name        *string   `json:"name,omitempty" db:"name"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	CommunityID *int64    `json:"communityId,omitempty" db:"community_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Participants []*ChatParticipant `json:"participants,omitempty" db:"-"`
	LastMessage  *Message           `json:"lastMessage,omitempty" db:"-"`
	UnreadCount  int                `json:"unreadCount" db:"-"`
}

// ChatParticipant links a user to a chat
type ChatParticipant struct {
	ID         int64      `json:"id" db:"id"`
	ChatID     int64      `json:"chatId" db:"chat_id"`
	UserID     int64      `json:"userId" db:"user_id"`
	Role       ChatRole   `json:"role" db:"role"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	LastReadAt *time.Time `json:"lastReadAt,omitempty" db:"last_read_at"`
	JoinedAt   time.Time  `json:"joinedAt" db:"joined_at"`

	User *UserSummary `json:"user,omitempty" db:"-"`
}

// MessageType is inferred from the attachment when a message is sent
type MessageType string

const (
	MessageTypeText  MessageType = "TEXT"
	MessageTypeImage MessageType = "IMAGE"
	MessageTypeFile  MessageType = "FILE"
)

// Message is a chat message. Deleted messages keep their row with empty content.
type Message struct {
	ID        int64       `json:"id" db:"id"`
	ChatID    int64       `json:"chatId" db:"chat_id"`
	SenderID  int64       `json:"senderId" db:"sender_id"`
	Content   string      `json:"content" db:"content"`
	Type      MessageType `json:"type" db:"type"`
	FileURL   *string     `json:"fileUrl,omitempty" db:"file_url"`
	FileName  *string     `json:"fileName,omitempty" db:"file_name"`
	FileSize  *int64      `json:"fileSize,omitempty" db:"file_size"`
	IsEdited  bool        `json:"isEdited" db:"is_edited"`
	IsDeleted bool        `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time   `json:"updatedAt" db:"updated_at"`

	Sender *UserSummary `json:"sender,omitempty" db:"-"`
}
