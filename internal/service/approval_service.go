package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util"
)

// TxRunner runs a function inside one atomic unit of work. The approval row
// mutation, ticket flag writes and audit inserts of one operation commit
// together; notification emission stays outside the boundary.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ApprovalService owns the approval chain: starting chains, decisions,
// resubmissions and reassignment.
type ApprovalService struct {
	approvals  repository.ApprovalRepository
	tickets    repository.TicketRepository
	people     repository.PersonRepository
	org        *OrgResolver
	tx         TxRunner
	dispatcher events.Dispatcher
}

// ApprovalDependencies bundles collaborators for the approval service.
type ApprovalDependencies struct {
	ApprovalRepo repository.ApprovalRepository
	TicketRepo   repository.TicketRepository
	PersonRepo   repository.PersonRepository
	Org          *OrgResolver
	Tx           TxRunner
	Dispatcher   events.Dispatcher
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	return &ApprovalService{
		approvals:  deps.ApprovalRepo,
		tickets:    deps.TicketRepo,
		people:     deps.PersonRepo,
		org:        deps.Org,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// DecisionResult summarizes the chain movement caused by one decision.
type DecisionResult struct {
	Approval      *domain.Approval
	NextApproval  *domain.Approval
	ChainComplete bool
}

// Decide applies a recipient's decision to a pending approval. On approval
// the chain either climbs one level to the recipient's supervisor or
// terminates, setting the matching ticket flag; on rejection the chain stops
// and the counterparty is notified.
func (s *ApprovalService) Decide(ctx context.Context, actorUserID, approvalID string, decision domain.ApprovalStatus, comments string) (*DecisionResult, error) {
	if decision != domain.ApprovalStatusApproved && decision != domain.ApprovalStatusRejected {
		return nil, apperrors.NewValidationError("decision must be Approved or Rejected", nil)
	}

	approval, err := s.getApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if approval.RecipientID != actorUserID {
		return nil, apperrors.NewForbidden("only the designated recipient may decide this approval")
	}
	if approval.Status != domain.ApprovalStatusPending {
		return nil, apperrors.NewInvalidTransition("approval already resolved",
			map[string]any{"approval_id": approvalID, "status": approval.Status})
	}

	ticket, err := s.getTicket(ctx, approval.TicketID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.getPerson(ctx, approval.RecipientID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	approval.Status = decision
	approval.Comments = strings.TrimSpace(comments)
	approval.SubmittedOn = &now

	result := &DecisionResult{Approval: approval}
	pending := []events.Event{decidedEvent(approval, ticket, recipient)}

	if decision == domain.ApprovalStatusApproved {
		action, err := domain.NextChainAction(approval.Kind, recipient.Role)
		if err != nil {
			return nil, apperrors.NewInvalidTransition(err.Error(),
				map[string]any{"approval_id": approvalID})
		}
		if action.Advance {
			nextRecipient, err := s.org.RequiredSupervisorOf(ctx, recipient.ID)
			if err != nil {
				return nil, err
			}
			result.NextApproval = &domain.Approval{
				TicketID:    ticket.ID,
				RequestorID: recipient.ID,
				AgentID:     approval.AgentID,
				RecipientID: nextRecipient.ID,
				Role:        nextRecipient.Role,
				Kind:        approval.Kind,
				Status:      domain.ApprovalStatusPending,
			}
		} else {
			result.ChainComplete = true
		}
		ticket.ApplyFlag(action.Flag, now)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.approvals.Update(ctx, approval); err != nil {
			return err
		}
		if result.NextApproval != nil {
			if err := s.approvals.Create(ctx, result.NextApproval); err != nil {
				return err
			}
		}
		if decision == domain.ApprovalStatusApproved {
			return s.tickets.Update(ctx, ticket)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if result.NextApproval != nil {
		pending = append(pending, events.Event{
			Type:     events.EventApprovalRequested,
			TicketID: ticket.ID,
			Actor:    userActor(recipient.ID),
			Payload: events.ApprovalRequestedPayload{
				ApprovalID:  result.NextApproval.ID,
				RecipientID: result.NextApproval.RecipientID,
				Kind:        result.NextApproval.Kind,
			},
		})
	}
	s.publish(ctx, pending...)
	return result, nil
}

// StartRequestChain opens the request approval chain for a freshly created
// ticket. Line staff and managers address their supervisor; a deputy
// director is self-approving and the assigned agent may begin work at once.
// The caller is responsible for persisting the ticket flag changes.
func (s *ApprovalService) StartRequestChain(ctx context.Context, ticket *domain.Ticket, requester *domain.Person) (*domain.Approval, []events.Event, error) {
	now := time.Now()

	if requester.Role == domain.RoleDeputyDirector {
		ticket.ApplyFlag(domain.FlagRequestManager, now)
		ticket.ApplyFlag(domain.FlagRequestDeputy, now)
		evt := events.Event{
			Type:     events.EventWorkAuthorized,
			TicketID: ticket.ID,
			Actor:    userActor(requester.ID),
			Payload:  events.WorkAuthorizedPayload{AgentID: ticket.AgentID},
		}
		return nil, []events.Event{evt}, nil
	}

	supervisor, err := s.org.RequiredSupervisorOf(ctx, requester.ID)
	if err != nil {
		return nil, nil, err
	}
	approval := &domain.Approval{
		TicketID:    ticket.ID,
		RequestorID: requester.ID,
		AgentID:     ticket.AgentID,
		RecipientID: supervisor.ID,
		Role:        supervisor.Role,
		Kind:        domain.ApprovalKindRequest,
		Status:      domain.ApprovalStatusPending,
	}
	if err := s.approvals.Create(ctx, approval); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if requester.Role == domain.RoleManager {
		// The manager's own level is implicitly approved when they open the
		// ticket themselves.
		ticket.ApplyFlag(domain.FlagRequestManager, now)
	}

	evt := events.Event{
		Type:     events.EventApprovalRequested,
		TicketID: ticket.ID,
		Actor:    userActor(requester.ID),
		Payload: events.ApprovalRequestedPayload{
			ApprovalID:  approval.ID,
			RecipientID: approval.RecipientID,
			Kind:        domain.ApprovalKindRequest,
		},
	}
	return approval, []events.Event{evt}, nil
}

// StartDraft begins the draft sign-off chain for ticket closure. Only the
// assigned agent may start it; starting a new cycle clears the draft flags.
func (s *ApprovalService) StartDraft(ctx context.Context, agentID, ticketID string) (*domain.Approval, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AgentID != agentID {
		return nil, apperrors.NewForbidden("only the assigned agent may start the draft approval process")
	}
	requester, err := s.getPerson(ctx, ticket.RequesterID)
	if err != nil {
		return nil, err
	}

	draft := domain.FeedbackStatusDraft
	ticket.FeedbackStatus = &draft
	ticket.DraftRequestorApproved = false
	ticket.DraftRequestorApprovedOn = nil
	ticket.DraftManagerApproved = false
	ticket.DraftManagerApprovedOn = nil
	ticket.DraftDeputyApproved = false
	ticket.DraftDeputyApprovedOn = nil

	approval := &domain.Approval{
		TicketID:    ticket.ID,
		RequestorID: requester.ID,
		AgentID:     agentID,
		RecipientID: requester.ID,
		Role:        requester.Role,
		Kind:        domain.ApprovalKindDraft,
		Status:      domain.ApprovalStatusPending,
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.approvals.Create(ctx, approval); err != nil {
			return err
		}
		return s.tickets.Update(ctx, ticket)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventApprovalRequested,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload: events.ApprovalRequestedPayload{
			ApprovalID:  approval.ID,
			RecipientID: approval.RecipientID,
			Kind:        domain.ApprovalKindDraft,
		},
	})
	return approval, nil
}

// ResubmitAsUser re-arms a rejected approval in place on behalf of the
// step's requestor. The row is overwritten, not superseded; this is the one
// exception to resolved rows being immutable.
func (s *ApprovalService) ResubmitAsUser(ctx context.Context, userID, approvalID string, status domain.ApprovalStatus, comments string) (*domain.Approval, error) {
	return s.resubmit(ctx, approvalID, status, comments, func(approval *domain.Approval) error {
		if approval.RequestorID != userID {
			return apperrors.NewForbidden("only the requestor may resubmit this approval")
		}
		return nil
	}, userActor(userID))
}

// ResubmitAsAgent re-arms a rejected draft approval on behalf of the
// ticket's assigned agent.
func (s *ApprovalService) ResubmitAsAgent(ctx context.Context, agentID, approvalID string, status domain.ApprovalStatus, comments string) (*domain.Approval, error) {
	return s.resubmit(ctx, approvalID, status, comments, func(approval *domain.Approval) error {
		if approval.AgentID != agentID {
			return apperrors.NewForbidden("only the assigned agent may resubmit this approval")
		}
		return nil
	}, agentActor(agentID))
}

func (s *ApprovalService) resubmit(ctx context.Context, approvalID string, status domain.ApprovalStatus, comments string, authorize func(*domain.Approval) error, actor events.Actor) (*domain.Approval, error) {
	approval, err := s.getApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if err := authorize(approval); err != nil {
		return nil, err
	}
	if approval.Status != domain.ApprovalStatusRejected {
		return nil, apperrors.NewInvalidTransition("only rejected approvals can be resubmitted",
			map[string]any{"approval_id": approvalID, "status": approval.Status})
	}
	if status == "" {
		status = domain.ApprovalStatusPending
	}

	now := time.Now()
	approval.Status = status
	approval.Comments = strings.TrimSpace(comments)
	approval.SubmittedOn = &now

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.approvals.Update(ctx, approval)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventApprovalResubmitted,
		TicketID: approval.TicketID,
		Actor:    actor,
		Payload: events.ApprovalRequestedPayload{
			ApprovalID:   approval.ID,
			RecipientID:  approval.RecipientID,
			Kind:         approval.Kind,
			Resubmission: true,
		},
	})
	return approval, nil
}

// Reassign moves a pending approval to a new recipient. Only the approval's
// associated agent may reassign; role, kind, status and comments are left
// untouched.
func (s *ApprovalService) Reassign(ctx context.Context, agentID, approvalID, newRecipientID string) (*domain.Approval, error) {
	approval, err := s.getApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if approval.AgentID != agentID {
		return nil, apperrors.NewForbidden("only the assigned agent may reassign this approval")
	}
	if approval.Status != domain.ApprovalStatusPending {
		return nil, apperrors.NewInvalidTransition("only pending approvals can be reassigned",
			map[string]any{"approval_id": approvalID, "status": approval.Status})
	}
	if _, err := s.getPerson(ctx, newRecipientID); err != nil {
		return nil, err
	}

	approval.RecipientID = newRecipientID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.approvals.Update(ctx, approval)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return approval, nil
}

// ListForUser returns approvals where the user is recipient or requestor.
func (s *ApprovalService) ListForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	approvals, err := s.approvals.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return approvals, nil
}

// ListForAgent returns approvals handled by the agent; admins see all.
func (s *ApprovalService) ListForAgent(ctx context.Context, agent *domain.Agent) ([]domain.Approval, error) {
	var (
		approvals []domain.Approval
		err       error
	)
	if agent.Type == domain.AgentTypeAdmin {
		approvals, err = s.approvals.ListAll(ctx)
	} else {
		approvals, err = s.approvals.ListForAgent(ctx, agent.ID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return approvals, nil
}

// GetForUser fetches one approval, visible to its recipient or requestor.
func (s *ApprovalService) GetForUser(ctx context.Context, userID, approvalID string) (*domain.Approval, error) {
	approval, err := s.getApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if approval.RecipientID != userID && approval.RequestorID != userID {
		return nil, apperrors.NewForbidden("not a participant of this approval")
	}
	return approval, nil
}

// GetForAgent fetches one approval, visible to its handler or any admin.
func (s *ApprovalService) GetForAgent(ctx context.Context, agent *domain.Agent, approvalID string) (*domain.Approval, error) {
	approval, err := s.getApproval(ctx, approvalID)
	if err != nil {
		return nil, err
	}
	if agent.Type != domain.AgentTypeAdmin && approval.AgentID != agent.ID {
		return nil, apperrors.NewForbidden("not the handler of this approval")
	}
	return approval, nil
}

func (s *ApprovalService) getApproval(ctx context.Context, id string) (*domain.Approval, error) {
	approval, err := s.approvals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("approval", map[string]any{"approval_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return approval, nil
}

func (s *ApprovalService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *ApprovalService) getPerson(ctx context.Context, id string) (*domain.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("person", map[string]any{"person_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return person, nil
}

// publish emits events after the transaction committed; notification
// delivery is best-effort and never unwinds the workflow mutation.
func (s *ApprovalService) publish(ctx context.Context, evts ...events.Event) {
	if s.dispatcher == nil {
		return
	}
	for _, evt := range evts {
		if evt.ID == "" {
			evt.ID = uuid.NewString()
		}
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now()
		}
		_ = s.dispatcher.Publish(ctx, evt)
	}
}

func decidedEvent(approval *domain.Approval, ticket *domain.Ticket, recipient *domain.Person) events.Event {
	return events.Event{
		Type:     events.EventApprovalDecided,
		TicketID: ticket.ID,
		Actor:    userActor(recipient.ID),
		Payload: events.ApprovalDecidedPayload{
			ApprovalID:    approval.ID,
			Kind:          approval.Kind,
			Decision:      approval.Status,
			DecidedByName: recipient.FullName,
			RequesterID:   ticket.RequesterID,
			AgentID:       ticket.AgentID,
		},
	}
}

func userActor(userID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, UserID: &userID}
}

func agentActor(agentID string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeAgent, AgentID: &agentID}
}
