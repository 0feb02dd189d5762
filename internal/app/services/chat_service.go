package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/events"
	"github.com/yigit/hireboard/internal/pkg/filestorage"
)

const (
	DefaultMessagePageSize = 50
	MaxMessagePageSize     = 100
)

// ChatActivity is the payload of a chat-activity event on a participant's user channel
type ChatActivity struct {
	ChatID    int64              `json:"chatId"`
	MessageID int64              `json:"messageId"`
	SenderID  int64              `json:"senderId"`
	Type      models.MessageType `json:"type"`
	Preview   string             `json:"preview"`
}

// MessageRemoved is the payload of a message-deleted event
type MessageRemoved struct {
	ChatID    int64 `json:"chatId"`
	MessageID int64 `json:"messageId"`
}

// SendMessageInput is a message to post; File is optional
type SendMessageInput struct {
	Content string
	File    *multipart.FileHeader
}

// ChatService handles direct chats, community chats and their messages
type ChatService struct {
	chatRepo    ChatStore
	messageRepo MessageStore
	userRepo    UserStore
	uploader    FileUploader
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewChatService creates a new ChatService
func NewChatService(
	chatRepo ChatStore,
	messageRepo MessageStore,
	userRepo UserStore,
	uploader FileUploader,
	publisher events.Publisher,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		publisher:   publisher,
		logger:      logger.With().Str("service", "chat").Logger(),
		now:         time.Now,
	}
}

// OpenDirect finds or creates the direct chat between the caller and another user.
// created reports whether a new chat was made.
func (s *ChatService) OpenDirect(ctx context.Context, userID, otherID int64) (*models.Chat, bool, error) {
	if userID == otherID {
		return nil, false, apperrors.NewBadRequestError("cannot start a chat with yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, otherID); err != nil {
		return nil, false, err
	}

	chat, created, err := s.chatRepo.FindOrCreateDirect(ctx, userID, otherID)
	if err != nil {
		return nil, false, err
	}
	if err := s.attachParticipants(ctx, chat); err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info().Int64("chatID", chat.ID).Int64("userID", userID).Int64("otherID", otherID).Msg("Direct chat created")
	}
	return chat, created, nil
}

// List returns the caller's chats ordered by last activity
func (s *ChatService) List(ctx context.Context, userID int64) ([]*models.Chat, error) {
	return s.chatRepo.ListForUser(ctx, userID)
}

// Get returns a chat the caller participates in
func (s *ChatService) Get(ctx context.Context, userID, chatID int64) (*models.Chat, error) {
	chat, _, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.attachParticipants(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Update renames a chat or swaps its avatar. Only ADMIN participants may do so.
func (s *ChatService) Update(ctx context.Context, userID, chatID int64, name *string, avatar *multipart.FileHeader) (*models.Chat, error) {
	chat, participant, err := s.participantChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if participant.Role != models.ChatRoleAdmin {
		return nil, apperrors.ErrNotChatAdmin
	}
	if name == nil && avatar == nil {
		return nil, apperrors.NewBadRequestError("nothing to update")
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.NewBadRequestError("name must not be empty")
		}
		name = &trimmed
	}

	previous := chat.AvatarURL
	var avatarURL *string
	if avatar != nil {
		stored, err := s.uploader.Upload(ctx, filestorage.FieldChatAvatar, avatar)
		if err != nil {
			return nil, err
		}
		avatarURL = &stored.URL
	}

	if err := s.chatRepo.Update(ctx, chatID, name, avatarURL); err != nil {
		if avatarURL != nil {
			if rmErr := s.uploader.Remove(ctx, *avatarURL); rmErr != nil {
				s.logger.Warn().Err(rmErr).Str("url", *avatarURL).Msg("Failed to remove orphaned upload")
			}
		}
		return nil, err
	}
	if avatarURL != nil {
		replaceFile(ctx, s.uploader, s.logger, previous)
		chat.AvatarURL = avatarURL
	}
	if name != nil {
		chat.Name = name
	}
	chat.UpdatedAt = s.now()
	if err := s.attachParticipants(ctx, chat); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, events.New(events.ChatChannel(chatID), events.ChatUpdated, chat))
	return chat, nil
}

// Messages returns one page of a chat's history, newest first
func (s *ChatService) Messages(ctx context.Context, userID, chatID int64, page, limit int) (*dto.MessagesPage, error) {
	if _, _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultMessagePageSize
	}
	if limit > MaxMessagePageSize {
		limit = MaxMessagePageSize
	}

	// one extra row tells whether an older page exists
	messages, err := s.messageRepo.ListByChat(ctx, chatID, (page-1)*limit, limit+1)
	if err != nil {
		return nil, err
	}
	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}
	return &dto.MessagesPage{Messages: messages, Page: page, Limit: limit, HasMore: hasMore}, nil
}

// Send posts a message. The type is inferred from the attachment, if any.
func (s *ChatService) Send(ctx context.Context, userID, chatID int64, in SendMessageInput) (*models.Message, error) {
	if _, _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(in.Content)
	if content == "" && in.File == nil {
		return nil, apperrors.ErrEmptyMessage
	}

	message := &models.Message{
		ChatID:   chatID,
		SenderID: userID,
		Content:  content,
		Type:     models.MessageTypeText,
	}
	if in.File != nil {
		stored, err := s.uploader.Upload(ctx, filestorage.FieldChatAttachment, in.File)
		if err != nil {
			return nil, err
		}
		message.FileURL = &stored.URL
		message.FileName = &stored.Name
		message.FileSize = &stored.Size
		message.Type = models.MessageTypeFile
		if stored.IsImage() {
			message.Type = models.MessageTypeImage
		}
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		if message.FileURL != nil {
			if rmErr := s.uploader.Remove(ctx, *message.FileURL); rmErr != nil {
				s.logger.Warn().Err(rmErr).Str("url", *message.FileURL).Msg("Failed to remove orphaned upload")
			}
		}
		return nil, err
	}
	if err := s.chatRepo.Touch(ctx, chatID, message.CreatedAt); err != nil {
		s.logger.Warn().Err(err).Int64("chatID", chatID).Msg("Failed to touch chat")
	}
	if summaries, err := s.userRepo.GetSummaries(ctx, []int64{userID}); err == nil {
		message.Sender = summaries[userID]
	} else {
		s.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to load message sender")
	}

	evts := []events.Event{
		events.New(events.ChatChannel(chatID), events.NewMessage, message),
		events.New(events.PrivateChatChannel(chatID), events.NewMessage, message),
	}
	participantIDs, err := s.chatRepo.ParticipantIDs(ctx, chatID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("chatID", chatID).Msg("Failed to load participants for chat activity")
	}
	activity := ChatActivity{
		ChatID:    chatID,
		MessageID: message.ID,
		SenderID:  userID,
		Type:      message.Type,
		Preview:   preview(message),
	}
	for _, id := range participantIDs {
		if id != userID {
			evts = append(evts, events.New(events.UserChannel(id), events.ChatActivity, activity))
		}
	}
	publish(ctx, s.publisher, s.logger, evts...)
	return message, nil
}

// MarkRead moves the caller's read marker to now
func (s *ChatService) MarkRead(ctx context.Context, userID, chatID int64) (*dto.ReadReceipt, error) {
	if _, _, err := s.participantChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	at := s.now().UTC()
	if err := s.chatRepo.MarkRead(ctx, chatID, userID, at); err != nil {
		return nil, err
	}
	receipt := &dto.ReadReceipt{ChatID: chatID, UserID: userID, ReadAt: at.Format(time.RFC3339Nano)}
	publish(ctx, s.publisher, s.logger, events.New(events.ChatChannel(chatID), events.MessagesRead, receipt))
	return receipt, nil
}

// Edit replaces the content of the caller's own text message
func (s *ChatService) Edit(ctx context.Context, userID, messageID int64, content string) (*models.Message, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if _, _, err := s.participantChat(ctx, userID, message.ChatID); err != nil {
		return nil, err
	}
	if message.SenderID != userID {
		return nil, apperrors.NewForbiddenError("only the sender can edit a message")
	}
	if message.IsDeleted {
		return nil, apperrors.NewBadRequestError("message has been deleted")
	}
	if message.Type != models.MessageTypeText {
		return nil, apperrors.NewBadRequestError("only text messages can be edited")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	if err := s.messageRepo.UpdateContent(ctx, messageID, content); err != nil {
		return nil, err
	}
	message.Content = content
	message.IsEdited = true
	message.UpdatedAt = s.now()

	publish(ctx, s.publisher, s.logger, events.New(events.ChatChannel(message.ChatID), events.MessageEdited, message))
	return message, nil
}

// Delete soft-deletes a message. The sender and chat admins may delete.
func (s *ChatService) Delete(ctx context.Context, userID, messageID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	_, participant, err := s.participantChat(ctx, userID, message.ChatID)
	if err != nil {
		return err
	}
	if message.SenderID != userID && participant.Role != models.ChatRoleAdmin {
		return apperrors.NewForbiddenError("only the sender or a chat admin can delete a message")
	}
	if message.IsDeleted {
		return nil
	}

	if err := s.messageRepo.SoftDelete(ctx, messageID); err != nil {
		return err
	}
	if message.FileURL != nil {
		replaceFile(ctx, s.uploader, s.logger, message.FileURL)
	}
	s.logger.Info().Int64("messageID", messageID).Int64("userID", userID).Msg("Message deleted")

	publish(ctx, s.publisher, s.logger, events.New(events.ChatChannel(message.ChatID), events.MessageDeleted,
		MessageRemoved{ChatID: message.ChatID, MessageID: messageID}))
	return nil
}

// participantChat loads a chat and the caller's participation in it.
func (s *ChatService) participantChat(ctx context.Context, userID, chatID int64) (*models.Chat, *models.ChatParticipant, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	participant, err := s.chatRepo.GetParticipant(ctx, chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	return chat, participant, nil
}

func (s *ChatService) attachParticipants(ctx context.Context, chat *models.Chat) error {
	participants, err := s.chatRepo.ListParticipants(ctx, chat.ID)
	if err != nil {
		return fmt.Errorf("error loading participants: %w", err)
	}
	chat.Participants = participants
	return nil
}

const previewLen = 80

func preview(m *models.Message) string {
	switch {
	case m.Content != "":
		r := []rune(m.Content)
		if len(r) > previewLen {
			return string(r[:previewLen]) + "…"
		}
		return m.Content
	case m.FileName != nil:
		return *m.FileName
	}
	return ""
}
