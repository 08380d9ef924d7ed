package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util"
)

type approvalFixture struct {
	service    *ApprovalService
	approvals  *fakeApprovalRepo
	tickets    *fakeTicketRepo
	people     *fakePersonRepo
	dispatcher *recordingDispatcher
}

func strPtr(s string) *string { return &s }

// orgTree returns u1 -> m1 -> d1 in one division/program.
func orgTree() []domain.Person {
	return []domain.Person{
		{ID: "u1", FullName: "Uma Staff", Role: domain.RoleLineStaff, Division: "ops", Program: "intake", SupervisorID: strPtr("m1"), Active: true},
		{ID: "m1", FullName: "Mori Manager", Role: domain.RoleManager, Division: "ops", Program: "intake", SupervisorID: strPtr("d1"), Active: true},
		{ID: "d1", FullName: "Dana Deputy", Role: domain.RoleDeputyDirector, Division: "ops", Program: "intake", Active: true},
	}
}

func newApprovalFixture(people []domain.Person, tickets []domain.Ticket, approvals []domain.Approval) *approvalFixture {
	personRepo := newFakePersonRepo(people...)
	ticketRepo := newFakeTicketRepo(tickets...)
	approvalRepo := newFakeApprovalRepo(approvals...)
	dispatcher := &recordingDispatcher{}
	svc := NewApprovalService(ApprovalDependencies{
		ApprovalRepo: approvalRepo,
		TicketRepo:   ticketRepo,
		PersonRepo:   personRepo,
		Org:          NewOrgResolver(personRepo),
		Tx:           directTx{},
		Dispatcher:   dispatcher,
	})
	return &approvalFixture{
		service:    svc,
		approvals:  approvalRepo,
		tickets:    ticketRepo,
		people:     personRepo,
		dispatcher: dispatcher,
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func TestStartRequestChainLineStaff(t *testing.T) {
	fx := newApprovalFixture(orgTree(), []domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1"}}, nil)
	ticket, err := fx.tickets.GetByID(context.Background(), "t1")
	require.NoError(t, err)
	requester, err := fx.people.GetByID(context.Background(), "u1")
	require.NoError(t, err)

	approval, evts, err := fx.service.StartRequestChain(context.Background(), ticket, requester)
	require.NoError(t, err)
	require.NotNil(t, approval)
	assert.Equal(t, "m1", approval.RecipientID)
	assert.Equal(t, "u1", approval.RequestorID)
	assert.Equal(t, domain.RoleManager, approval.Role)
	assert.Equal(t, domain.ApprovalKindRequest, approval.Kind)
	assert.Equal(t, domain.ApprovalStatusPending, approval.Status)

	assert.False(t, ticket.RequestManagerApproved)
	assert.False(t, ticket.RequestDeputyApproved)

	require.Len(t, evts, 1)
	assert.Equal(t, events.EventApprovalRequested, evts[0].Type)
}

func TestStartRequestChainManagerSkipsOwnLevel(t *testing.T) {
	fx := newApprovalFixture(orgTree(), []domain.Ticket{{ID: "t1", RequesterID: "m1", AgentID: "a1"}}, nil)
	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	requester, _ := fx.people.GetByID(context.Background(), "m1")

	approval, _, err := fx.service.StartRequestChain(context.Background(), ticket, requester)
	require.NoError(t, err)
	require.NotNil(t, approval)
	assert.Equal(t, "d1", approval.RecipientID)
	assert.True(t, ticket.RequestManagerApproved)
	assert.False(t, ticket.RequestDeputyApproved)
}

func TestStartRequestChainDeputySelfAuthorizes(t *testing.T) {
	fx := newApprovalFixture(orgTree(), []domain.Ticket{{ID: "t1", RequesterID: "d1", AgentID: "a1"}}, nil)
	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	requester, _ := fx.people.GetByID(context.Background(), "d1")

	approval, evts, err := fx.service.StartRequestChain(context.Background(), ticket, requester)
	require.NoError(t, err)
	assert.Nil(t, approval)
	assert.True(t, ticket.RequestManagerApproved)
	assert.True(t, ticket.RequestDeputyApproved)
	assert.Empty(t, fx.approvals.order)

	require.Len(t, evts, 1)
	assert.Equal(t, events.EventWorkAuthorized, evts[0].Type)
}

func TestDecideRequestChainClimbsToDeputy(t *testing.T) {
	feedback := domain.FeedbackStatusRequest
	fx := newApprovalFixture(orgTree(),
		[]domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1", FeedbackStatus: &feedback}},
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	result, err := fx.service.Decide(context.Background(), "m1", "ap1", domain.ApprovalStatusApproved, "looks fine")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, result.Approval.Status)
	require.NotNil(t, result.Approval.SubmittedOn)
	assert.False(t, result.ChainComplete)

	require.NotNil(t, result.NextApproval)
	assert.Equal(t, "d1", result.NextApproval.RecipientID)
	assert.Equal(t, "m1", result.NextApproval.RequestorID)
	assert.Equal(t, domain.RoleDeputyDirector, result.NextApproval.Role)
	assert.Equal(t, domain.ApprovalKindRequest, result.NextApproval.Kind)

	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	assert.True(t, ticket.RequestManagerApproved)
	assert.False(t, ticket.RequestDeputyApproved)
	assert.Equal(t, domain.StageAwaitingDeputy, ticket.RequestStage())

	// Deputy completes the chain; no further row is created.
	rows := len(fx.approvals.order)
	result, err = fx.service.Decide(context.Background(), "d1", result.NextApproval.ID, domain.ApprovalStatusApproved, "")
	require.NoError(t, err)
	assert.True(t, result.ChainComplete)
	assert.Nil(t, result.NextApproval)
	assert.Len(t, fx.approvals.order, rows)

	ticket, _ = fx.tickets.GetByID(context.Background(), "t1")
	assert.True(t, ticket.RequestDeputyApproved)
	assert.Equal(t, domain.StageComplete, ticket.RequestStage())
}

func TestDecideRejectionStopsChain(t *testing.T) {
	fx := newApprovalFixture(orgTree(),
		[]domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1"}},
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	result, err := fx.service.Decide(context.Background(), "m1", "ap1", domain.ApprovalStatusRejected, "needs detail")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusRejected, result.Approval.Status)
	assert.Equal(t, "needs detail", result.Approval.Comments)
	assert.Nil(t, result.NextApproval)
	assert.False(t, result.ChainComplete)
	assert.Len(t, fx.approvals.order, 1)

	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	assert.False(t, ticket.RequestManagerApproved)
	assert.False(t, ticket.RequestDeputyApproved)
}

func TestDecideOnlyRecipientMayAct(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	_, err := fx.service.Decide(context.Background(), "d1", "ap1", domain.ApprovalStatusApproved, "")
	requireCode(t, err, "FORBIDDEN")

	stored, _ := fx.approvals.GetByID(context.Background(), "ap1")
	assert.Equal(t, domain.ApprovalStatusPending, stored.Status)
}

func TestDecideResolvedRowIsImmutable(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusApproved}})

	_, err := fx.service.Decide(context.Background(), "m1", "ap1", domain.ApprovalStatusRejected, "")
	requireCode(t, err, "INVALID_TRANSITION")
}

func TestDecideInvalidDecisionValue(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil, nil)
	_, err := fx.service.Decide(context.Background(), "m1", "ap1", domain.ApprovalStatus("Maybe"), "")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestDecideMissingApproval(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil, nil)
	_, err := fx.service.Decide(context.Background(), "m1", "nope", domain.ApprovalStatusApproved, "")
	requireCode(t, err, "NOT_FOUND")
}

func TestDecideBrokenHierarchyFailsOperation(t *testing.T) {
	people := []domain.Person{
		{ID: "u1", Role: domain.RoleLineStaff, SupervisorID: strPtr("m1"), Active: true},
		// m1's supervisor reference dangles.
		{ID: "m1", FullName: "Mori Manager", Role: domain.RoleManager, SupervisorID: strPtr("ghost"), Active: true},
	}
	fx := newApprovalFixture(people,
		[]domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1"}},
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	_, err := fx.service.Decide(context.Background(), "m1", "ap1", domain.ApprovalStatusApproved, "")
	requireCode(t, err, "BROKEN_HIERARCHY")

	// Nothing was persisted.
	stored, _ := fx.approvals.GetByID(context.Background(), "ap1")
	assert.Equal(t, domain.ApprovalStatusPending, stored.Status)
	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	assert.False(t, ticket.RequestManagerApproved)
}

func TestStartDraftChain(t *testing.T) {
	feedback := domain.FeedbackStatusRequest
	now := time.Now()
	fx := newApprovalFixture(orgTree(),
		[]domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1", FeedbackStatus: &feedback,
			DraftManagerApproved: true, DraftManagerApprovedOn: &now}}, nil)

	approval, err := fx.service.StartDraft(context.Background(), "a1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", approval.RecipientID)
	assert.Equal(t, "u1", approval.RequestorID)
	assert.Equal(t, domain.RoleLineStaff, approval.Role)
	assert.Equal(t, domain.ApprovalKindDraft, approval.Kind)

	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	require.NotNil(t, ticket.FeedbackStatus)
	assert.Equal(t, domain.FeedbackStatusDraft, *ticket.FeedbackStatus)
	// Starting a fresh cycle clears any stale draft flags.
	assert.False(t, ticket.DraftManagerApproved)
	assert.Nil(t, ticket.DraftManagerApprovedOn)
	assert.Equal(t, domain.StageAwaitingRequestor, ticket.DraftStage())
}

func TestStartDraftOnlyAssignedAgent(t *testing.T) {
	fx := newApprovalFixture(orgTree(), []domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1"}}, nil)
	_, err := fx.service.StartDraft(context.Background(), "a2", "t1")
	requireCode(t, err, "FORBIDDEN")
}

func TestDraftChainClimbsOneLevelPerApproval(t *testing.T) {
	draft := domain.FeedbackStatusDraft
	fx := newApprovalFixture(orgTree(),
		[]domain.Ticket{{ID: "t1", RequesterID: "u1", AgentID: "a1", FeedbackStatus: &draft}},
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "u1",
			Role: domain.RoleLineStaff, Kind: domain.ApprovalKindDraft, Status: domain.ApprovalStatusPending}})

	result, err := fx.service.Decide(context.Background(), "u1", "ap1", domain.ApprovalStatusApproved, "")
	require.NoError(t, err)
	require.NotNil(t, result.NextApproval)
	assert.Equal(t, "m1", result.NextApproval.RecipientID)
	assert.Equal(t, domain.ApprovalKindDraft, result.NextApproval.Kind)

	ticket, _ := fx.tickets.GetByID(context.Background(), "t1")
	assert.True(t, ticket.DraftRequestorApproved)
	assert.Equal(t, domain.StageAwaitingManager, ticket.DraftStage())

	result, err = fx.service.Decide(context.Background(), "m1", result.NextApproval.ID, domain.ApprovalStatusApproved, "")
	require.NoError(t, err)
	require.NotNil(t, result.NextApproval)
	assert.Equal(t, "d1", result.NextApproval.RecipientID)

	result, err = fx.service.Decide(context.Background(), "d1", result.NextApproval.ID, domain.ApprovalStatusApproved, "")
	require.NoError(t, err)
	assert.True(t, result.ChainComplete)

	ticket, _ = fx.tickets.GetByID(context.Background(), "t1")
	assert.Equal(t, domain.StageComplete, ticket.DraftStage())
}

func TestResubmitReArmsRejectedRow(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusRejected,
			Comments: "needs detail"}})

	approval, err := fx.service.ResubmitAsUser(context.Background(), "u1", "ap1", "", "added details")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusPending, approval.Status)
	assert.Equal(t, "added details", approval.Comments)
	assert.Equal(t, "m1", approval.RecipientID)
	assert.Len(t, fx.approvals.order, 1)

	resubmitted := fx.dispatcher.ofType(events.EventApprovalResubmitted)
	require.Len(t, resubmitted, 1)
	payload, ok := resubmitted[0].Payload.(events.ApprovalRequestedPayload)
	require.True(t, ok)
	assert.True(t, payload.Resubmission)
}

func TestResubmitRequiresRequestor(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusRejected}})

	_, err := fx.service.ResubmitAsUser(context.Background(), "m1", "ap1", "", "")
	requireCode(t, err, "FORBIDDEN")

	stored, _ := fx.approvals.GetByID(context.Background(), "ap1")
	assert.Equal(t, domain.ApprovalStatusRejected, stored.Status)
}

func TestResubmitOnlyRejectedRows(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	_, err := fx.service.ResubmitAsUser(context.Background(), "u1", "ap1", "", "")
	requireCode(t, err, "INVALID_TRANSITION")
}

func TestResubmitAsAgentRequiresHandler(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "u1",
			Role: domain.RoleLineStaff, Kind: domain.ApprovalKindDraft, Status: domain.ApprovalStatusRejected}})

	_, err := fx.service.ResubmitAsAgent(context.Background(), "a2", "ap1", "", "")
	requireCode(t, err, "FORBIDDEN")

	approval, err := fx.service.ResubmitAsAgent(context.Background(), "a1", "ap1", "", "revised draft")
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusPending, approval.Status)
}

func TestReassignMutatesOnlyRecipient(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending,
			Comments: "original"}})

	approval, err := fx.service.Reassign(context.Background(), "a1", "ap1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", approval.RecipientID)
	assert.Equal(t, domain.RoleManager, approval.Role)
	assert.Equal(t, domain.ApprovalStatusPending, approval.Status)
	assert.Equal(t, "original", approval.Comments)
	assert.Empty(t, fx.dispatcher.events)
}

func TestReassignGuards(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{
			{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
				Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending},
			{ID: "ap2", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
				Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusApproved},
		})

	_, err := fx.service.Reassign(context.Background(), "a2", "ap1", "d1")
	requireCode(t, err, "FORBIDDEN")

	_, err = fx.service.Reassign(context.Background(), "a1", "ap2", "d1")
	requireCode(t, err, "INVALID_TRANSITION")

	_, err = fx.service.Reassign(context.Background(), "a1", "ap1", "ghost")
	requireCode(t, err, "NOT_FOUND")
}

func TestApprovalVisibility(t *testing.T) {
	fx := newApprovalFixture(orgTree(), nil,
		[]domain.Approval{{ID: "ap1", TicketID: "t1", RequestorID: "u1", AgentID: "a1", RecipientID: "m1",
			Role: domain.RoleManager, Kind: domain.ApprovalKindRequest, Status: domain.ApprovalStatusPending}})

	_, err := fx.service.GetForUser(context.Background(), "u1", "ap1")
	require.NoError(t, err)
	_, err = fx.service.GetForUser(context.Background(), "m1", "ap1")
	require.NoError(t, err)
	_, err = fx.service.GetForUser(context.Background(), "d1", "ap1")
	requireCode(t, err, "FORBIDDEN")

	standard := &domain.Agent{ID: "a1", Type: domain.AgentTypeStandard}
	_, err = fx.service.GetForAgent(context.Background(), standard, "ap1")
	require.NoError(t, err)

	other := &domain.Agent{ID: "a2", Type: domain.AgentTypeStandard}
	_, err = fx.service.GetForAgent(context.Background(), other, "ap1")
	requireCode(t, err, "FORBIDDEN")

	admin := &domain.Agent{ID: "a9", Type: domain.AgentTypeAdmin}
	_, err = fx.service.GetForAgent(context.Background(), admin, "ap1")
	require.NoError(t, err)

	all, err := fx.service.ListForAgent(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
