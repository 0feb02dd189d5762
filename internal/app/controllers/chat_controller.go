package controllers

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/app/services"
	"github.com/yigit/hireboard/internal/middleware"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
)

// ChatAPI is the messaging service used by ChatController
type ChatAPI interface {
	OpenDirect(ctx context.Context, userID, otherID int64) (*models.Chat, bool, error)
	List(ctx context.Context, userID int64) ([]*models.Chat, error)
	Get(ctx context.Context, userID, chatID int64) (*models.Chat, error)
	Update(ctx context.Context, userID, chatID int64, name *string, avatar *multipart.FileHeader) (*models.Chat, error)
	Messages(ctx context.Context, userID, chatID int64, page, limit int) (*dto.MessagesPage, error)
	Send(ctx context.Context, userID, chatID int64, in services.SendMessageInput) (*models.Message, error)
	MarkRead(ctx context.Context, userID, chatID int64) (*dto.ReadReceipt, error)
	Edit(ctx context.Context, userID, messageID int64, content string) (*models.Message, error)
	Delete(ctx context.Context, userID, messageID int64) error
}

// ChatController handles chat and message endpoints
type ChatController struct {
	chatService ChatAPI
	logger      zerolog.Logger
}

// NewChatController creates a new ChatController
func NewChatController(chatService ChatAPI, logger zerolog.Logger) *ChatController {
	return &ChatController{chatService: chatService, logger: logger}
}

func isMultipart(ctx *gin.Context) bool {
	return strings.HasPrefix(ctx.ContentType(), "multipart/form-data")
}

// OpenDirect finds or creates a direct chat
// @Summary Open direct chat
// @Description Returns 201 when the chat was created and 200 when it already existed.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDirectChatRequest true "Other user"
// @Success 200 {object} dto.APIResponse{data=models.Chat}
// @Success 201 {object} dto.APIResponse{data=models.Chat}
// @Failure 400 {object} dto.ErrorResponse "Chat with self"
// @Failure 404 {object} dto.ErrorResponse "Unknown user"
// @Router /messages/direct [post]
func (c *ChatController) OpenDirect(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	var req dto.CreateDirectChatRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	chat, isNew, err := c.chatService.OpenDirect(ctx.Request.Context(), user.ID, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if isNew {
		respondCreated(ctx, chat)
		return
	}
	respondOK(ctx, chat)
}

// ListChats returns the caller's chats
// @Summary My chats
// @Description Ordered by last activity, with last message preview and unread count.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Chat}
// @Router /messages/chats [get]
func (c *ChatController) ListChats(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chats, err := c.chatService.List(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, chats)
}

// GetChat returns one chat
// @Summary Get chat
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Success 200 {object} dto.APIResponse{data=models.Chat}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /messages/chats/{chatId} [get]
func (c *ChatController) GetChat(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chatID, valid := idParam(ctx, "chatId")
	if !valid {
		return
	}
	chat, err := c.chatService.Get(ctx.Request.Context(), user.ID, chatID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, chat)
}

// UpdateChat renames a chat or replaces its avatar
// @Summary Update chat
// @Description ADMIN participants only. Accepts JSON {name} or multipart with name and avatar.
// @Tags messages
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param name formData string false "New name"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} dto.APIResponse{data=models.Chat}
// @Failure 403 {object} dto.ErrorResponse "Not a chat admin"
// @Router /messages/chats/{chatId} [patch]
func (c *ChatController) UpdateChat(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chatID, valid := idParam(ctx, "chatId")
	if !valid {
		return
	}

	var req dto.UpdateChatRequest
	var avatar *multipart.FileHeader
	if isMultipart(ctx) {
		if !middleware.Bind(ctx, &req) {
			return
		}
		avatar = optionalFormFile(ctx, filestorage.FieldChatAvatar)
		if avatar == nil {
			avatar = optionalFormFile(ctx, "avatar")
		}
	} else if !middleware.BindJSON(ctx, &req) {
		return
	}

	chat, err := c.chatService.Update(ctx.Request.Context(), user.ID, chatID, req.Name, avatar)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, chat)
}

// Messages returns a page of chat history
// @Summary Chat messages
// @Description Newest first. Deleted messages keep their place with empty content.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size (max 100)" default(50)
// @Success 200 {object} dto.APIResponse{data=dto.MessagesPage}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /messages/chats/{chatId}/messages [get]
func (c *ChatController) Messages(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chatID, valid := idParam(ctx, "chatId")
	if !valid {
		return
	}
	pageNum, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	result, err := c.chatService.Messages(ctx.Request.Context(), user.ID, chatID, pageNum, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, result)
}

// Send posts a message
// @Summary Send message
// @Description JSON {content} or multipart with file and optional content. IMAGE or FILE type is inferred from the upload.
// @Tags messages
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Param content formData string false "Text"
// @Param file formData file false "Attachment (max 25MB)"
// @Success 201 {object} dto.APIResponse{data=models.Message}
// @Failure 400 {object} dto.ErrorResponse "Empty message"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Router /messages/chats/{chatId}/messages [post]
func (c *ChatController) Send(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chatID, valid := idParam(ctx, "chatId")
	if !valid {
		return
	}

	var req dto.SendMessageRequest
	var in services.SendMessageInput
	if isMultipart(ctx) {
		if !middleware.Bind(ctx, &req) {
			return
		}
		in.File = optionalFormFile(ctx, "file")
	} else if !middleware.BindJSON(ctx, &req) {
		return
	}
	in.Content = req.Content

	message, err := c.chatService.Send(ctx.Request.Context(), user.ID, chatID, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, message)
}

// MarkRead marks a chat as read
// @Summary Mark chat read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param chatId path int true "Chat ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReadReceipt}
// @Router /messages/chats/{chatId}/read [post]
func (c *ChatController) MarkRead(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	chatID, valid := idParam(ctx, "chatId")
	if !valid {
		return
	}
	receipt, err := c.chatService.MarkRead(ctx.Request.Context(), user.ID, chatID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, receipt)
}

// EditMessage replaces the content of the caller's text message
// @Summary Edit message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Param request body dto.EditMessageRequest true "New content"
// @Success 200 {object} dto.APIResponse{data=models.Message}
// @Failure 403 {object} dto.ErrorResponse "Not the sender"
// @Router /messages/messages/{messageId} [patch]
func (c *ChatController) EditMessage(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	messageID, valid := idParam(ctx, "messageId")
	if !valid {
		return
	}
	var req dto.EditMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	message, err := c.chatService.Edit(ctx.Request.Context(), user.ID, messageID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, message)
}

// DeleteMessage soft-deletes a message
// @Summary Delete message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the sender or a chat admin"
// @Router /messages/messages/{messageId} [delete]
func (c *ChatController) DeleteMessage(ctx *gin.Context) {
	user, authed := middleware.MustCurrentUser(ctx)
	if !authed {
		return
	}
	messageID, valid := idParam(ctx, "messageId")
	if !valid {
		return
	}
	if err := c.chatService.Delete(ctx.Request.Context(), user.ID, messageID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.MessageResponse{Message: "Message deleted"})
}
