package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRankOrder(t *testing.T) {
	assert.Greater(t, RoleAdmin.Rank(), RoleManager.Rank())
	assert.Greater(t, RoleManager.Rank(), RoleUser.Rank())
	assert.Equal(t, 0, Role("intruder").Rank())
}

func TestRoleAtLeast(t *testing.T) {
	// Meeting the lowest rank in the allowed set is sufficient, so
	// [manager] effectively means "manager or admin".
	assert.True(t, RoleManager.AtLeast(RoleManager, RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleManager))
	assert.False(t, RoleUser.AtLeast(RoleManager, RoleAdmin))
	assert.True(t, RoleUser.AtLeast(RoleUser))
	assert.False(t, RoleAdmin.AtLeast())
}
