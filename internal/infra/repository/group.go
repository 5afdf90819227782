package repository

import (
	"context"
	"errors"

	"couponkeeper/internal/infra"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GroupRepository struct {
	db *pgxpool.Pool
}

func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

// FindMembershipRole returns the caller's active role in a group, or
// KindNotFound when the user is not an active member.
func (r *GroupRepository) FindMembershipRole(ctx context.Context, groupID, userID uuid.UUID) (string, error) {
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT role FROM group_members
		WHERE group_id = $1 AND user_id = $2 AND status = 'active'`,
		groupID, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", infra.WrapRepoErr("group membership not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to find group membership", err)
	}
	return role, nil
}

func (r *GroupRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.GroupRM, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.name, m.role, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1 AND m.status = 'active'
		ORDER BY g.name`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user groups", err)
	}
	defer rows.Close()

	var result []*readmodel.GroupRM
	for rows.Next() {
		var rm readmodel.GroupRM
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Role, &rm.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan group row", err)
		}
		result = append(result, &rm)
	}
	return result, rows.Err()
}

// ListActiveGroupIDs returns the ids of every group the user actively belongs
// to; the expiry sweep uses it to scope the notification query.
func (r *GroupRepository) ListActiveGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		SELECT group_id FROM group_members
		WHERE user_id = $1 AND status = 'active'`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list group ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan group id", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
