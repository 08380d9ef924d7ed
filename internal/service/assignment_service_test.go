package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestSelectAgentRotatesByTicketCount(t *testing.T) {
	agents := &fakeAgentRepo{agents: []domain.Agent{
		{ID: "a1", GroupID: "g1", Active: true},
		{ID: "a2", GroupID: "g1", Active: true},
		{ID: "a3", GroupID: "g1", Active: true},
	}}
	tickets := newFakeTicketRepo(
		domain.Ticket{ID: "t1", GroupID: "g1"},
		domain.Ticket{ID: "t2", GroupID: "g1"},
		domain.Ticket{ID: "t3", GroupID: "g2"},
	)
	svc := NewAssignmentService(agents, tickets, nil, zap.NewNop())

	// Two existing tickets in the group puts the cursor on the third agent.
	agent, err := svc.SelectAgent(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "a3", agent.ID)
}

func TestSelectAgentSkipsInactive(t *testing.T) {
	agents := &fakeAgentRepo{agents: []domain.Agent{
		{ID: "a1", GroupID: "g1", Active: false},
		{ID: "a2", GroupID: "g1", Active: true},
	}}
	svc := NewAssignmentService(agents, newFakeTicketRepo(), nil, zap.NewNop())

	agent, err := svc.SelectAgent(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "a2", agent.ID)
}

func TestSelectAgentEmptyGroup(t *testing.T) {
	agents := &fakeAgentRepo{}
	svc := NewAssignmentService(agents, newFakeTicketRepo(), nil, zap.NewNop())

	_, err := svc.SelectAgent(context.Background(), "g1")
	requireCode(t, err, "CONFLICT")
}
