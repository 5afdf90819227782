package usecase

import (
	"context"
	"errors"

	"couponkeeper/internal/domain/user"
	"couponkeeper/internal/infra"
	"couponkeeper/internal/pkg/errs"
	"couponkeeper/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var (
	ErrNotGroupMember   = errors.New("user is not a member of this group")
	ErrPermissionDenied = errors.New("insufficient permissions")
)

type GroupRepository interface {
	FindMembershipRole(ctx context.Context, groupID, userID uuid.UUID) (string, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*readmodel.GroupRM, error)
	ListActiveGroupIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type GroupUseCase interface {
	ListMyGroups(ctx context.Context, userID uuid.UUID) ([]*readmodel.GroupRM, error)
}

type groupUseCaseImpl struct {
	groupRepo GroupRepository
}

func NewGroupUseCase(groupRepo GroupRepository) GroupUseCase {
	return &groupUseCaseImpl{groupRepo: groupRepo}
}

func (g *groupUseCaseImpl) ListMyGroups(ctx context.Context, userID uuid.UUID) ([]*readmodel.GroupRM, error) {
	groups, err := g.groupRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list user groups")
	}
	return groups, nil
}

var roleHierarchy = map[user.Role]int{
	user.RoleViewer: 1,
	user.RoleEditor: 2,
	user.RoleAdmin:  3,
}

// requireMembership resolves the caller's role in the group and checks it
// against the minimum required for the operation.
func requireMembership(ctx context.Context, repo GroupRepository, groupID, userID uuid.UUID, minRole user.Role) (user.Role, error) {
	roleStr, err := repo.FindMembershipRole(ctx, groupID, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", ErrNotGroupMember
		}
		return "", errs.Wrap(err, "failed to resolve group membership")
	}

	role, err := user.NewRole(roleStr)
	if err != nil {
		return "", errs.Wrap(err, "unexpected membership role")
	}

	if roleHierarchy[role] < roleHierarchy[minRole] {
		return "", ErrPermissionDenied
	}
	return role, nil
}
