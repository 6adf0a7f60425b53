package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	groupserrors "roomly/internal/groups/errors"
	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
	"roomly/pkg/logger"
	"roomly/pkg/model"
)

type mockGroupRepository struct {
	groups    map[string]*model.Group
	members   map[string][]string
	memberErr error
	findErr   error
}

func (m *mockGroupRepository) FindByName(ctx context.Context, name string) (*model.Group, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	group, ok := m.groups[name]
	if !ok {
		return nil, groupserrors.ErrNotFound
	}
	return group, nil
}

func (m *mockGroupRepository) EnsureGroup(ctx context.Context, name string) (*model.Group, error) {
	return m.FindByName(ctx, name)
}

func (m *mockGroupRepository) AddMember(ctx context.Context, groupID, userID string) error {
	return nil
}

func (m *mockGroupRepository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	if m.memberErr != nil {
		return false, m.memberErr
	}
	for _, id := range m.members[groupID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepository) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	if m.memberErr != nil {
		return nil, m.memberErr
	}
	return m.members[groupID], nil
}

func roleTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func groupFixture() *mockGroupRepository {
	return &mockGroupRepository{
		groups: map[string]*model.Group{
			model.GroupAdmins:   {ID: "g-admins", Name: model.GroupAdmins},
			model.GroupManagers: {ID: "g-managers", Name: model.GroupManagers},
		},
		members: map[string][]string{
			"g-admins":   {"alice"},
			"g-managers": {"bob", "alice"},
		},
	}
}

func TestResolveRole(t *testing.T) {
	svc := NewRoleService(groupFixture(), roleTestConfig())
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		want   model.Role
	}{
		{"admin group member", "alice", model.RoleAdmin},
		{"manager group member", "bob", model.RoleManager},
		{"no group membership", "carol", model.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ResolveRole(ctx, tt.userID); got != tt.want {
				t.Errorf("ResolveRole(%s) = %s, want %s", tt.userID, got, tt.want)
			}
		})
	}
}

func TestResolveRole_AdminWinsOverManager(t *testing.T) {
	// alice is in both groups; the admin check short-circuits.
	svc := NewRoleService(groupFixture(), roleTestConfig())

	if got := svc.ResolveRole(context.Background(), "alice"); got != model.RoleAdmin {
		t.Errorf("expected admin for dual membership, got %s", got)
	}
}

func TestResolveRole_FailsSafeOnError(t *testing.T) {
	repo := groupFixture()
	repo.memberErr = fmt.Errorf("connection refused")
	svc := NewRoleService(repo, roleTestConfig())

	if got := svc.ResolveRole(context.Background(), "alice"); got != model.RoleUser {
		t.Errorf("lookup failure must degrade to user, got %s", got)
	}
}

func TestResolveRole_MissingGroupsMeanNoRole(t *testing.T) {
	repo := &mockGroupRepository{groups: map[string]*model.Group{}}
	svc := NewRoleService(repo, roleTestConfig())

	if got := svc.ResolveRole(context.Background(), "alice"); got != model.RoleUser {
		t.Errorf("expected user when role groups do not exist, got %s", got)
	}
}

func TestRequireRole(t *testing.T) {
	svc := NewRoleService(groupFixture(), roleTestConfig())
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  string
		allowed []model.Role
		wantErr bool
	}{
		{"admin passes manager gate", "alice", []model.Role{model.RoleManager, model.RoleAdmin}, false},
		{"manager passes manager gate", "bob", []model.Role{model.RoleManager, model.RoleAdmin}, false},
		{"user denied manager gate", "carol", []model.Role{model.RoleManager, model.RoleAdmin}, true},
		{"manager denied admin gate", "bob", []model.Role{model.RoleAdmin}, true},
		{"user passes user gate", "carol", []model.Role{model.RoleUser}, false},
		{"empty allowed set denies", "alice", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RequireRole(ctx, tt.userID, tt.allowed...)
			if tt.wantErr && err == nil {
				t.Fatal("expected denial")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected denial: %v", err)
			}
			if tt.wantErr && !apperrors.IsCode(err, apperrors.CodeForbidden) {
				t.Errorf("expected forbidden error, got %v", err)
			}
		})
	}
}

func TestOperatorIDs_DeduplicatesUnion(t *testing.T) {
	svc := NewRoleService(groupFixture(), roleTestConfig())

	ids := svc.OperatorIDs(context.Background())
	if len(ids) != 2 {
		t.Fatalf("expected 2 distinct operators, got %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate operator ID %s", id)
		}
		seen[id] = true
	}
	if !seen["alice"] || !seen["bob"] {
		t.Errorf("expected alice and bob, got %v", ids)
	}
}

func TestOperatorIDs_FailureYieldsEmptySet(t *testing.T) {
	repo := groupFixture()
	repo.memberErr = fmt.Errorf("connection refused")
	svc := NewRoleService(repo, roleTestConfig())

	if ids := svc.OperatorIDs(context.Background()); len(ids) != 0 {
		t.Errorf("lookup failure must yield the empty set, got %v", ids)
	}
}

func TestCanMutateResource(t *testing.T) {
	svc := NewRoleService(groupFixture(), roleTestConfig())
	ctx := context.Background()

	tests := []struct {
		name    string
		role    model.Role
		actorID string
		ownerID string
		want    bool
	}{
		{"admin mutates admin-owned", model.RoleAdmin, "alice", "alice", true},
		{"admin mutates manager-owned", model.RoleAdmin, "alice", "bob", true},
		{"admin denied plain-user-owned", model.RoleAdmin, "alice", "carol", false},
		{"manager mutates own", model.RoleManager, "bob", "bob", true},
		{"manager denied others", model.RoleManager, "bob", "alice", false},
		{"user mutates own", model.RoleUser, "carol", "carol", true},
		{"user denied others", model.RoleUser, "carol", "bob", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.CanMutateResource(ctx, tt.role, tt.actorID, tt.ownerID); got != tt.want {
				t.Errorf("CanMutateResource(%s, %s, %s) = %v, want %v", tt.role, tt.actorID, tt.ownerID, got, tt.want)
			}
		})
	}
}
