package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/db"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

var messageColumns = []string{
	"m.id", "m.chat_id", "m.sender_id", "m.content", "m.type", "m.file_url", "m.file_name", "m.file_size",
	"m.is_edited", "m.is_deleted", "m.created_at", "m.updated_at",
	"u.first_name", "u.last_name", "u.avatar_url", "u.role",
}

// MessageRepository handles database operations for chat messages
type MessageRepository struct {
	db db.DBTX
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

func selectMessages() squirrel.SelectBuilder {
	return psql.Select(messageColumns...).From("messages m").Join("users u ON u.id = m.sender_id")
}

func collectMessages(rows pgx.Rows) ([]*models.Message, error) {
	defer rows.Close()
	messages := []*models.Message{}
	for rows.Next() {
		m := &models.Message{Sender: &models.UserSummary{}}
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.Type, &m.FileURL, &m.FileName, &m.FileSize,
			&m.IsEdited, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt,
			&m.Sender.FirstName, &m.Sender.LastName, &m.Sender.AvatarURL, &m.Sender.Role); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		m.Sender.ID = m.SenderID
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	sql, args, err := psql.Insert("messages").
		Columns("chat_id", "sender_id", "content", "type", "file_url", "file_name", "file_size").
		Values(message.ChatID, message.SenderID, message.Content, message.Type, message.FileURL, message.FileName, message.FileSize).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&message.ID, &message.CreatedAt, &message.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("chatID", message.ChatID).Msg("Error creating message")
		return fmt.Errorf("error creating message: %w", dberrors.Classify(err))
	}
	return nil
}

// GetByID retrieves a message with its sender
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := selectMessages().Where(squirrel.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving message: %w", err)
	}
	messages, err := collectMessages(rows)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, apperrors.ErrMessageNotFound
	}
	return messages[0], nil
}

// ListByChat returns messages of a chat newest first
func (r *MessageRepository) ListByChat(ctx context.Context, chatID int64, offset, limit int) ([]*models.Message, error) {
	sql, args, err := selectMessages().
		Where(squirrel.Eq{"m.chat_id": chatID}).
		OrderBy("m.created_at DESC", "m.id DESC").
		Offset(uint64(offset)).Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return collectMessages(rows)
}

// UpdateContent replaces the text of a message and marks it edited
func (r *MessageRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	n, err := exec(ctx, r.db, psql.Update("messages").
		Set("content", content).
		Set("is_edited", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_deleted": false}))
	if err != nil {
		return fmt.Errorf("error editing message: %w", err)
	}
	if n == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// SoftDelete clears a message while keeping its row in the history
func (r *MessageRepository) SoftDelete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.db, psql.Update("messages").
		Set("content", "").
		Set("file_url", nil).
		Set("file_name", nil).
		Set("file_size", nil).
		Set("is_deleted", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_deleted": false}))
	if err != nil {
		return fmt.Errorf("error deleting message: %w", err)
	}
	if n == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}
