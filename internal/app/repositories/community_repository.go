package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/db"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
	"github.com/yigit/hireboard/internal/pkg/textnorm"
)

var communityColumns = []string{
	"c.id", "c.name", "c.description", "c.avatar_url", "c.creator_id", "c.member_count", "c.is_private",
	"c.created_at", "c.updated_at", "ch.id AS chat_id",
}

// CommunityRepository handles database operations for communities and their members
type CommunityRepository struct {
	database *db.PostgresDB
	db       db.DBTX
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(database *db.PostgresDB) *CommunityRepository {
	return &CommunityRepository{database: database, db: database.Pool}
}

// selectCommunities joins the community chat and the viewer's role; viewerID 0 yields a NULL role.
func selectCommunities(viewerID int64) squirrel.SelectBuilder {
	return psql.Select(communityColumns...).
		Column("vm.role AS your_role").
		From("communities c").
		LeftJoin("chats ch ON ch.community_id = c.id").
		LeftJoin("community_members vm ON vm.community_id = c.id AND vm.user_id = ?", viewerID)
}

// Create inserts the community, its CREATOR membership, its COMMUNITY chat and the
// creator's ADMIN chat participation in one transaction.
func (r *CommunityRepository) Create(ctx context.Context, community *models.Community) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := psql.Insert("communities").
			Columns("name", "description", "avatar_url", "creator_id", "member_count", "is_private").
			Values(community.Name, community.Description, community.AvatarURL, community.CreatorID, 1, community.IsPrivate).
			Suffix("RETURNING id, member_count, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create community query: %w", err)
		}
		err = tx.QueryRow(ctx, sql, args...).Scan(&community.ID, &community.MemberCount, &community.CreatedAt, &community.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "communities_name_key") {
				return apperrors.ErrCommunityExists
			}
			return fmt.Errorf("error creating community: %w", err)
		}

		if _, err := exec(ctx, tx, psql.Insert("community_members").
			Columns("community_id", "user_id", "role").
			Values(community.ID, community.CreatorID, models.CommunityRoleCreator)); err != nil {
			return fmt.Errorf("error adding community creator: %w", err)
		}

		var chatID int64
		sql, args, err = psql.Insert("chats").
			Columns("type", "name", "avatar_url", "community_id").
			Values(models.ChatTypeCommunity, community.Name, community.AvatarURL, community.ID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create community chat query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&chatID); err != nil {
			return fmt.Errorf("error creating community chat: %w", err)
		}

		if _, err := exec(ctx, tx, psql.Insert("chat_participants").
			Columns("chat_id", "user_id", "role").
			Values(chatID, community.CreatorID, models.ChatRoleAdmin)); err != nil {
			return fmt.Errorf("error adding creator to community chat: %w", err)
		}

		role := models.CommunityRoleCreator
		community.ChatID = &chatID
		community.YourRole = &role
		return nil
	})
}

// GetByID retrieves a community with the viewer's role
func (r *CommunityRepository) GetByID(ctx context.Context, id, viewerID int64) (*models.Community, error) {
	community, err := getOne[models.Community](ctx, r.db, selectCommunities(viewerID).Where(squirrel.Eq{"c.id": id}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error retrieving community: %w", err)
	}
	return community, nil
}

// List returns one page of communities matching filter and the total match count
func (r *CommunityRepository) List(ctx context.Context, filter models.CommunityFilter, viewerID int64) ([]*models.Community, int, error) {
	where := squirrel.And{}
	if filter.Search != "" {
		pattern := textnorm.RawLikePattern(filter.Search)
		where = append(where, squirrel.Or{squirrel.ILike{"c.name": pattern}, squirrel.ILike{"c.description": pattern}})
	}

	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("communities c").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting communities: %w", err)
	}
	communities, err := getAll[models.Community](ctx, r.db, selectCommunities(viewerID).Where(where).
		OrderBy("c.member_count DESC", "c.id").
		Offset(uint64(filter.Offset)).Limit(uint64(filter.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing communities: %w", err)
	}
	return communities, total, nil
}

// ListForUser returns the communities userID belongs to
func (r *CommunityRepository) ListForUser(ctx context.Context, userID int64) ([]*models.Community, error) {
	communities, err := getAll[models.Community](ctx, r.db, selectCommunities(userID).
		Where(squirrel.NotEq{"vm.role": nil}).
		OrderBy("vm.joined_at DESC"))
	if err != nil {
		return nil, fmt.Errorf("error listing user communities: %w", err)
	}
	return communities, nil
}

// GetMember returns the membership of userID in communityID
func (r *CommunityRepository) GetMember(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	return getMember(ctx, r.db, communityID, userID, false)
}

func getMember(ctx context.Context, q db.DBTX, communityID, userID int64, forUpdate bool) (*models.CommunityMember, error) {
	b := psql.Select("id", "community_id", "user_id", "role", "joined_at").
		From("community_members").
		Where(squirrel.Eq{"community_id": communityID, "user_id": userID})
	if forUpdate {
		b = b.Suffix("FOR UPDATE")
	}
	var m models.CommunityMember
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member query: %w", err)
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.CommunityID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrNotMember
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}
	return &m, nil
}

// lockCommunity takes a row lock on the community and returns its chat ID
func lockCommunity(ctx context.Context, tx pgx.Tx, communityID int64) (int64, error) {
	var chatID int64
	err := tx.QueryRow(ctx, `
		SELECT ch.id FROM communities c
		JOIN chats ch ON ch.community_id = c.id
		WHERE c.id = $1
		FOR UPDATE OF c`, communityID).Scan(&chatID)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return 0, apperrors.ErrCommunityNotFound
		}
		return 0, fmt.Errorf("error locking community: %w", err)
	}
	return chatID, nil
}

func adjustMemberCount(ctx context.Context, tx pgx.Tx, communityID int64, delta int) (int, error) {
	sql, args, err := psql.Update("communities").
		Set("member_count", squirrel.Expr("member_count + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": communityID}).
		Suffix("RETURNING member_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build member count update: %w", err)
	}
	var count int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error updating member count: %w", dberrors.Classify(err))
	}
	return count, nil
}

// Join adds userID as MEMBER, (re)activates its chat participation and increments
// member_count atomically. It returns the new member count.
func (r *CommunityRepository) Join(ctx context.Context, communityID, userID int64) (int, error) {
	var count int
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chatID, err := lockCommunity(ctx, tx, communityID)
		if err != nil {
			return err
		}

		if _, err := exec(ctx, tx, psql.Insert("community_members").
			Columns("community_id", "user_id", "role").
			Values(communityID, userID, models.CommunityRoleMember)); err != nil {
			if dberrors.IsDuplicateConstraintError(err, "community_members_key") {
				return apperrors.ErrAlreadyMember
			}
			return fmt.Errorf("error adding member: %w", dberrors.Classify(err))
		}

		if _, err := exec(ctx, tx, psql.Insert("chat_participants").
			Columns("chat_id", "user_id", "role").
			Values(chatID, userID, models.ChatRoleMember).
			Suffix(`ON CONFLICT ON CONSTRAINT chat_participants_user_chat_key
				DO UPDATE SET is_active = TRUE, role = EXCLUDED.role, joined_at = NOW()`)); err != nil {
			return fmt.Errorf("error adding chat participant: %w", err)
		}

		count, err = adjustMemberCount(ctx, tx, communityID, 1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Leave removes userID's membership and chat participation and decrements
// member_count atomically. The creator cannot leave. It returns the new member count.
func (r *CommunityRepository) Leave(ctx context.Context, communityID, userID int64) (int, error) {
	var count int
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chatID, err := lockCommunity(ctx, tx, communityID)
		if err != nil {
			return err
		}

		member, err := getMember(ctx, tx, communityID, userID, true)
		if err != nil {
			return err
		}
		if member.Role == models.CommunityRoleCreator {
			return apperrors.ErrCreatorCannotLeave
		}

		if _, err := exec(ctx, tx, psql.Delete("community_members").Where(squirrel.Eq{"id": member.ID})); err != nil {
			return fmt.Errorf("error removing member: %w", err)
		}
		if _, err := exec(ctx, tx, psql.Delete("chat_participants").
			Where(squirrel.Eq{"chat_id": chatID, "user_id": userID})); err != nil {
			return fmt.Errorf("error removing chat participant: %w", err)
		}

		count, err = adjustMemberCount(ctx, tx, communityID, -1)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListMembers returns one page of members with their user summary
func (r *CommunityRepository) ListMembers(ctx context.Context, communityID int64, offset, limit int) ([]*models.CommunityMember, int, error) {
	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("community_members").
		Where(squirrel.Eq{"community_id": communityID}))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting members: %w", err)
	}

	sql, args, err := psql.Select("m.id", "m.community_id", "m.user_id", "m.role", "m.joined_at",
		"u.first_name", "u.last_name", "u.avatar_url", "u.role").
		From("community_members m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.community_id": communityID}).
		OrderBy("m.joined_at", "m.id").
		Offset(uint64(offset)).Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build members query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := []*models.CommunityMember{}
	for rows.Next() {
		m := &models.CommunityMember{User: &models.UserSummary{}}
		if err := rows.Scan(&m.ID, &m.CommunityID, &m.UserID, &m.Role, &m.JoinedAt,
			&m.User.FirstName, &m.User.LastName, &m.User.AvatarURL, &m.User.Role); err != nil {
			return nil, 0, fmt.Errorf("error scanning member row: %w", err)
		}
		m.User.ID = m.UserID
		members = append(members, m)
	}
	return members, total, rows.Err()
}

// UpdateMemberRole changes a member's role and mirrors it on the community chat
func (r *CommunityRepository) UpdateMemberRole(ctx context.Context, communityID, userID int64, role models.CommunityRole) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		chatID, err := lockCommunity(ctx, tx, communityID)
		if err != nil {
			return err
		}
		member, err := getMember(ctx, tx, communityID, userID, true)
		if err != nil {
			return err
		}
		if member.Role == models.CommunityRoleCreator {
			return apperrors.NewForbiddenError("the creator's role cannot be changed")
		}

		if _, err := exec(ctx, tx, psql.Update("community_members").Set("role", role).
			Where(squirrel.Eq{"id": member.ID})); err != nil {
			return fmt.Errorf("error updating member role: %w", dberrors.Classify(err))
		}
		if _, err := exec(ctx, tx, psql.Update("chat_participants").Set("role", role.ChatRole()).
			Where(squirrel.Eq{"chat_id": chatID, "user_id": userID})); err != nil {
			return fmt.Errorf("error updating chat participant role: %w", err)
		}
		return nil
	})
}

// UpdateAvatarURL sets the community avatar and mirrors it on the community chat
func (r *CommunityRepository) UpdateAvatarURL(ctx context.Context, communityID int64, url string) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		n, err := exec(ctx, tx, psql.Update("communities").Set("avatar_url", url).
			Set("updated_at", squirrel.Expr("NOW()")).Where(squirrel.Eq{"id": communityID}))
		if err != nil {
			return fmt.Errorf("error updating community avatar: %w", err)
		}
		if n == 0 {
			return apperrors.ErrCommunityNotFound
		}
		_, err = exec(ctx, tx, psql.Update("chats").Set("avatar_url", url).Where(squirrel.Eq{"community_id": communityID}))
		return err
	})
}

// IsMember reports whether userID belongs to communityID
func (r *CommunityRepository) IsMember(ctx context.Context, communityID, userID int64) (bool, error) {
	_, err := r.GetMember(ctx, communityID, userID)
	if errors.Is(err, apperrors.ErrNotMember) {
		return false, nil
	}
	if err != nil {
		logger.Error().Err(err).Int64("communityID", communityID).Msg("Error checking membership")
		return false, err
	}
	return true, nil
}
