package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestSupervisorOf(t *testing.T) {
	resolver := NewOrgResolver(newFakePersonRepo(orgTree()...))

	supervisor, err := resolver.SupervisorOf(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, supervisor)
	assert.Equal(t, "m1", supervisor.ID)
	assert.Equal(t, domain.RoleManager, supervisor.Role)
}

func TestSupervisorOfTopOfTree(t *testing.T) {
	resolver := NewOrgResolver(newFakePersonRepo(orgTree()...))

	supervisor, err := resolver.SupervisorOf(context.Background(), "d1")
	require.NoError(t, err)
	assert.Nil(t, supervisor)
}

func TestSupervisorOfUnknownPerson(t *testing.T) {
	resolver := NewOrgResolver(newFakePersonRepo(orgTree()...))

	_, err := resolver.SupervisorOf(context.Background(), "ghost")
	requireCode(t, err, "NOT_FOUND")
}

func TestSupervisorOfDanglingReference(t *testing.T) {
	resolver := NewOrgResolver(newFakePersonRepo(
		domain.Person{ID: "u1", Role: domain.RoleLineStaff, SupervisorID: strPtr("gone"), Active: true},
	))

	_, err := resolver.SupervisorOf(context.Background(), "u1")
	requireCode(t, err, "BROKEN_HIERARCHY")
}

func TestRequiredSupervisorOf(t *testing.T) {
	resolver := NewOrgResolver(newFakePersonRepo(orgTree()...))

	supervisor, err := resolver.RequiredSupervisorOf(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "d1", supervisor.ID)

	// A chain step cannot climb past the top of the tree.
	_, err = resolver.RequiredSupervisorOf(context.Background(), "d1")
	requireCode(t, err, "BROKEN_HIERARCHY")
}
