package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/db"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

var chatColumns = []string{"c.id", "c.type", "c.name", "c.avatar_url", "c.community_id", "c.created_at", "c.updated_at"}

// ChatRepository handles database operations for chats and their participants
type ChatRepository struct {
	database *db.PostgresDB
	db       db.DBTX
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(database *db.PostgresDB) *ChatRepository {
	return &ChatRepository{database: database, db: database.Pool}
}

func scanChat(row pgx.Row, extra ...any) (*models.Chat, error) {
	var chat models.Chat
	dest := append([]any{&chat.ID, &chat.Type, &chat.Name, &chat.AvatarURL, &chat.CommunityID, &chat.CreatedAt, &chat.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &chat, nil
}

// GetByID retrieves a chat
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	sql, args, err := psql.Select(chatColumns...).From("chats c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get chat query: %w", err)
	}
	chat, err := scanChat(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, fmt.Errorf("error retrieving chat: %w", err)
	}
	return chat, nil
}

// FindOrCreateDirect returns the DIRECT chat between two users, creating it with
// both users as ADMIN participants when none exists. created reports which happened.
func (r *ChatRepository) FindOrCreateDirect(ctx context.Context, userID, otherID int64) (chat *models.Chat, created bool, err error) {
	low, high := userID, otherID
	if low > high {
		low, high = high, low
	}

	err = r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// serialize concurrent creations for the same pair
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))",
			fmt.Sprintf("direct-chat:%d:%d", low, high)); err != nil {
			return fmt.Errorf("error locking direct chat pair: %w", err)
		}

		sql, args, err := psql.Select(chatColumns...).From("chats c").
			Join("chat_participants a ON a.chat_id = c.id AND a.user_id = ?", low).
			Join("chat_participants b ON b.chat_id = c.id AND b.user_id = ?", high).
			Where(squirrel.Eq{"c.type": models.ChatTypeDirect}).
			Limit(1).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build find direct chat query: %w", err)
		}
		chat, err = scanChat(tx.QueryRow(ctx, sql, args...))
		if err == nil {
			_, err = exec(ctx, tx, psql.Update("chat_participants").Set("is_active", true).
				Where(squirrel.Eq{"chat_id": chat.ID, "user_id": []int64{low, high}}))
			return err
		}
		if !dberrors.IsNoRows(err) {
			return fmt.Errorf("error finding direct chat: %w", err)
		}

		sql, args, err = psql.Insert("chats").Columns("type").Values(models.ChatTypeDirect).
			Suffix("RETURNING id, type, name, avatar_url, community_id, created_at, updated_at").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create chat query: %w", err)
		}
		if chat, err = scanChat(tx.QueryRow(ctx, sql, args...)); err != nil {
			return fmt.Errorf("error creating direct chat: %w", err)
		}
		if _, err := exec(ctx, tx, psql.Insert("chat_participants").
			Columns("chat_id", "user_id", "role").
			Values(chat.ID, low, models.ChatRoleAdmin).
			Values(chat.ID, high, models.ChatRoleAdmin)); err != nil {
			return fmt.Errorf("error adding direct chat participants: %w", dberrors.Classify(err))
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return chat, created, nil
}

// GetParticipant returns the active participation of userID in chatID
func (r *ChatRepository) GetParticipant(ctx context.Context, chatID, userID int64) (*models.ChatParticipant, error) {
	participant, err := getOne[models.ChatParticipant](ctx, r.db, psql.
		Select("id", "chat_id", "user_id", "role", "is_active", "last_read_at", "joined_at").
		From("chat_participants").
		Where(squirrel.Eq{"chat_id": chatID, "user_id": userID, "is_active": true}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotChatParticipant
		}
		return nil, fmt.Errorf("error retrieving chat participant: %w", err)
	}
	return participant, nil
}

// ListParticipants returns the active participants of the given chats with their user summary
func (r *ChatRepository) ListParticipants(ctx context.Context, chatIDs ...int64) ([]*models.ChatParticipant, error) {
	if len(chatIDs) == 0 {
		return []*models.ChatParticipant{}, nil
	}
	sql, args, err := psql.Select("cp.id", "cp.chat_id", "cp.user_id", "cp.role", "cp.is_active", "cp.last_read_at",
		"cp.joined_at", "u.first_name", "u.last_name", "u.avatar_url", "u.role").
		From("chat_participants cp").
		Join("users u ON u.id = cp.user_id").
		Where(squirrel.Eq{"cp.chat_id": chatIDs, "cp.is_active": true}).
		OrderBy("cp.joined_at", "cp.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing participants: %w", err)
	}
	defer rows.Close()

	participants := []*models.ChatParticipant{}
	for rows.Next() {
		p := &models.ChatParticipant{User: &models.UserSummary{}}
		if err := rows.Scan(&p.ID, &p.ChatID, &p.UserID, &p.Role, &p.IsActive, &p.LastReadAt, &p.JoinedAt,
			&p.User.FirstName, &p.User.LastName, &p.User.AvatarURL, &p.User.Role); err != nil {
			return nil, fmt.Errorf("error scanning participant row: %w", err)
		}
		p.User.ID = p.UserID
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ParticipantIDs returns the user IDs of the active participants of a chat
func (r *ChatRepository) ParticipantIDs(ctx context.Context, chatID int64) ([]int64, error) {
	sql, args, err := psql.Select("user_id").From("chat_participants").
		Where(squirrel.Eq{"chat_id": chatID, "is_active": true}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participant ids query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing participant ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("error scanning participant ids: %w", err)
	}
	return ids, nil
}

// ListForUser returns the caller's active chats, most recently active first, with
// their last message, unread count and participants
func (r *ChatRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Chat, error) {
	unread := squirrel.Expr(`(SELECT COUNT(*) FROM messages m
		WHERE m.chat_id = c.id AND m.sender_id <> cp.user_id AND NOT m.is_deleted
		AND (cp.last_read_at IS NULL OR m.created_at > cp.last_read_at)) AS unread_count`)

	sql, args, err := psql.Select(chatColumns...).Column(unread).
		From("chats c").
		Join("chat_participants cp ON cp.chat_id = c.id").
		Where(squirrel.Eq{"cp.user_id": userID, "cp.is_active": true}).
		OrderBy("c.updated_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list chats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing chats: %w", err)
	}
	defer rows.Close()

	chats := []*models.Chat{}
	byID := map[int64]*models.Chat{}
	for rows.Next() {
		var unreadCount int
		chat, err := scanChat(rows, &unreadCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat row: %w", err)
		}
		chat.UnreadCount = unreadCount
		chats = append(chats, chat)
		byID[chat.ID] = chat
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rows: %w", err)
	}
	if len(chats) == 0 {
		return chats, nil
	}

	ids := idsOf(chats, func(c *models.Chat) int64 { return c.ID })
	last, err := r.lastMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range last {
		byID[m.ChatID].LastMessage = m
	}

	participants, err := r.ListParticipants(ctx, ids...)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		byID[p.ChatID].Participants = append(byID[p.ChatID].Participants, p)
	}
	return chats, nil
}

func (r *ChatRepository) lastMessages(ctx context.Context, chatIDs []int64) ([]*models.Message, error) {
	sql, args, err := selectMessages().Options("DISTINCT ON (m.chat_id)").
		Where(squirrel.Eq{"m.chat_id": chatIDs}).
		OrderBy("m.chat_id", "m.created_at DESC", "m.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build last messages query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving last messages: %w", err)
	}
	return collectMessages(rows)
}

// MarkRead sets the read marker of userID in chatID
func (r *ChatRepository) MarkRead(ctx context.Context, chatID, userID int64, at time.Time) error {
	n, err := exec(ctx, r.db, psql.Update("chat_participants").
		Set("last_read_at", at).
		Where(squirrel.Eq{"chat_id": chatID, "user_id": userID, "is_active": true}))
	if err != nil {
		return fmt.Errorf("error marking chat read: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotChatParticipant
	}
	return nil
}

// Update renames a chat or replaces its avatar; nil values are left unchanged
func (r *ChatRepository) Update(ctx context.Context, chatID int64, name, avatarURL *string) error {
	q := psql.Update("chats").Set("updated_at", squirrel.Expr("NOW()")).Where(squirrel.Eq{"id": chatID})
	if name != nil {
		q = q.Set("name", *name)
	}
	if avatarURL != nil {
		q = q.Set("avatar_url", *avatarURL)
	}
	n, err := exec(ctx, r.db, q)
	if err != nil {
		logger.Error().Err(err).Int64("chatID", chatID).Msg("Error updating chat")
		return fmt.Errorf("error updating chat: %w", err)
	}
	if n == 0 {
		return apperrors.ErrChatNotFound
	}
	return nil
}

// Touch bumps the activity timestamp used to order chat lists
func (r *ChatRepository) Touch(ctx context.Context, chatID int64, at time.Time) error {
	_, err := exec(ctx, r.db, psql.Update("chats").Set("updated_at", at).Where(squirrel.Eq{"id": chatID}))
	if err != nil {
		return fmt.Errorf("error touching chat: %w", err)
	}
	return nil
}

// IsParticipant reports whether userID actively participates in chatID
func (r *ChatRepository) IsParticipant(ctx context.Context, chatID, userID int64) (bool, error) {
	return scalar[bool](ctx, r.db, psql.Select().
		Column("EXISTS(SELECT 1 FROM chat_participants WHERE chat_id = ? AND user_id = ? AND is_active)", chatID, userID))
}
