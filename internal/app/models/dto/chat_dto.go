package dto

import "github.com/yigit/hireboard/internal/app/models"

// CreateDirectChatRequest opens (or finds) a direct chat with another user
type CreateDirectChatRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1" example:"42"`
}

// SendMessageRequest is the JSON body of a text message
type SendMessageRequest struct {
	Content string `json:"content" form:"content" binding:"max=10000"`
}

// EditMessageRequest replaces the content of a text message
type EditMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// UpdateChatRequest renames a chat; the avatar arrives as a multipart file
type UpdateChatRequest struct {
	Name *string `json:"name" form:"name" binding:"omitempty,min=1,max=255"`
}

// MessagesPage is one page of a chat's history, newest first
type MessagesPage struct {
	Messages []*models.Message `json:"messages"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	HasMore  bool              `json:"hasMore"`
}

// ReadReceipt is the payload of a messages-read event
type ReadReceipt struct {
	ChatID int64  `json:"chatId"`
	UserID int64  `json:"userId"`
	ReadAt string `json:"readAt"`
}
