package service

import (
	"context"
	"errors"

	groupserrors "roomly/internal/groups/errors"
	"roomly/internal/groups/repository"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/model"
)

// RoleService derives a user's role from group membership on every call and
// gates actions on it. Membership is the authoritative source; roles are
// never stored or cached.
type RoleService interface {
	ResolveRole(ctx context.Context, userID string) model.Role
	RequireRole(ctx context.Context, userID string, allowed ...model.Role) (model.Role, error)
	OperatorIDs(ctx context.Context) []string
	CanMutateResource(ctx context.Context, role model.Role, actorID, ownerID string) bool
}

type roleService struct {
	groups repository.GroupRepository
	cfg    *config.Config
}

func NewRoleService(groups repository.GroupRepository, cfg *config.Config) RoleService {
	return &roleService{
		groups: groups,
		cfg:    cfg,
	}
}

// ResolveRole returns admin if the user belongs to the "Admins" group,
// manager for "Managers", user otherwise. The admin check runs first and
// short-circuits, so admin wins when a user is in both groups. Any lookup
// failure degrades to the least-privileged role.
func (s *roleService) ResolveRole(ctx context.Context, userID string) model.Role {
	if member, err := s.isMemberOf(ctx, model.GroupAdmins, userID); err != nil {
		s.cfg.Log.Error("Role resolution failed, defaulting to user", "user_id", userID, "group", model.GroupAdmins, "error", err)
		return model.RoleUser
	} else if member {
		return model.RoleAdmin
	}

	if member, err := s.isMemberOf(ctx, model.GroupManagers, userID); err != nil {
		s.cfg.Log.Error("Role resolution failed, defaulting to user", "user_id", userID, "group", model.GroupManagers, "error", err)
		return model.RoleUser
	} else if member {
		return model.RoleManager
	}

	return model.RoleUser
}

func (s *roleService) isMemberOf(ctx context.Context, groupName, userID string) (bool, error) {
	group, err := s.groups.FindByName(ctx, groupName)
	if err != nil {
		if errors.Is(err, groupserrors.ErrNotFound) {
			// A missing role group means nobody holds that role.
			return false, nil
		}
		return false, err
	}
	return s.groups.IsMember(ctx, group.ID, userID)
}

// RequireRole grants when the resolved role meets or exceeds the lowest rank
// named in allowed; [manager] therefore means "manager or admin". Denial is
// terminal for the current action.
func (s *roleService) RequireRole(ctx context.Context, userID string, allowed ...model.Role) (model.Role, error) {
	role := s.ResolveRole(ctx, userID)
	if !role.AtLeast(allowed...) {
		return "", apperrors.Forbidden("Insufficient permissions")
	}
	return role, nil
}

// OperatorIDs returns the union of "Admins" and "Managers" member IDs.
// Lookup failures degrade to the empty set, so admin mutations fail closed.
func (s *roleService) OperatorIDs(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var ids []string

	for _, name := range []string{model.GroupAdmins, model.GroupManagers} {
		group, err := s.groups.FindByName(ctx, name)
		if err != nil {
			if !errors.Is(err, groupserrors.ErrNotFound) {
				s.cfg.Log.Error("Failed to fetch operator group", "group", name, "error", err)
			}
			continue
		}
		members, err := s.groups.MemberIDs(ctx, group.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to list operator group members", "group", name, "error", err)
			continue
		}
		for _, id := range members {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	return ids
}

// CanMutateResource applies the ownership refinement layered on top of the
// role gate: admins may mutate resources owned by any operator, managers and
// plain users only their own.
func (s *roleService) CanMutateResource(ctx context.Context, role model.Role, actorID, ownerID string) bool {
	switch role {
	case model.RoleAdmin:
		for _, id := range s.OperatorIDs(ctx) {
			if id == ownerID {
				return true
			}
		}
		return false
	default:
		return actorID == ownerID
	}
}
