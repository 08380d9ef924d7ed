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

// TicketService coordinates ticket creation and the close/reopen lifecycle.
type TicketService struct {
	tickets     repository.TicketRepository
	people      repository.PersonRepository
	ticketTypes repository.TicketTypeRepository
	slas        repository.SLARepository
	groups      repository.GroupRepository
	audits      repository.AuditRepository
	assignment  *AssignmentService
	approvals   *ApprovalService
	tx          TxRunner
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	PersonRepo     repository.PersonRepository
	TicketTypeRepo repository.TicketTypeRepository
	SLARepo        repository.SLARepository
	GroupRepo      repository.GroupRepository
	AuditRepo      repository.AuditRepository
	Assignment     *AssignmentService
	Approvals      *ApprovalService
	Tx             TxRunner
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		people:      deps.PersonRepo,
		ticketTypes: deps.TicketTypeRepo,
		slas:        deps.SLARepo,
		groups:      deps.GroupRepo,
		audits:      deps.AuditRepo,
		assignment:  deps.Assignment,
		approvals:   deps.Approvals,
		tx:          deps.Tx,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	TicketTypeID string
	Title        string
	Description  string
	Priority     domain.TicketPriority
	DueDate      *time.Time
}

// CreateTicket creates a ticket for a requester: resolves its type, group
// and SLA, assigns an agent from the group rotation, arms the SLA clocks and
// opens the request approval chain, all in one unit of work.
func (s *TicketService) CreateTicket(ctx context.Context, userID string, input TicketCreateInput) (*domain.Ticket, error) {
	requester, err := s.getPerson(ctx, userID)
	if err != nil {
		return nil, err
	}
	ticketType, err := s.ticketTypes.GetByID(ctx, input.TicketTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket type", map[string]any{"ticket_type_id": input.TicketTypeID})
		}
		return nil, apperrors.MapError(err)
	}
	sla, err := s.slas.GetByID(ctx, ticketType.SLAID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	group, err := s.groups.GetByID(ctx, ticketType.GroupID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	agent, err := s.assignment.SelectAgent(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	firstResponseDue := now.Add(sla.FirstResponseTime)
	resolutionDue := now.Add(sla.ResolutionTime)
	feedback := domain.FeedbackStatusRequest

	ticket := &domain.Ticket{
		RequesterID:      requester.ID,
		AgentID:          agent.ID,
		TicketTypeID:     ticketType.ID,
		SLAID:            sla.ID,
		GroupID:          group.ID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		Category:         ticketType.Category,
		Subcategory:      ticketType.Subcategory,
		Status:           domain.TicketStatusOpen,
		Priority:         input.Priority,
		Division:         requester.Division,
		Program:          requester.Program,
		DueDate:          input.DueDate,
		FirstResponseDue: &firstResponseDue,
		ResolutionDue:    &resolutionDue,
		FeedbackStatus:   &feedback,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	var chainEvents []events.Event
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		_, evts, err := s.approvals.StartRequestChain(ctx, ticket, requester)
		if err != nil {
			return err
		}
		chainEvents = evts
		return s.tickets.Update(ctx, ticket)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, chainEvents...)
	return ticket, nil
}

// CloseTicket closes a ticket: completion timestamp, SLA resolution
// delinquency and an audit entry.
func (s *TicketService) CloseTicket(ctx context.Context, agentID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AgentID != agentID {
		return nil, apperrors.NewForbidden("only the assigned agent may close this ticket")
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition("ticket already closed",
			map[string]any{"ticket_id": ticketID})
	}

	now := time.Now()
	ticket.Status = domain.TicketStatusClosed
	ticket.CompletedOn = &now
	ticket.ResolutionOverdue = ticket.ResolutionDue != nil && now.After(*ticket.ResolutionDue)

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return s.audits.Create(ctx, &domain.Audit{
			TicketID:  ticket.ID,
			ActionBy:  agentID,
			NewStatus: domain.TicketStatusClosed,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload:  events.TicketClosedPayload{RequesterID: ticket.RequesterID},
	})
	return ticket, nil
}

// ReopenTicket moves a closed ticket back into work and records the
// transition.
func (s *TicketService) ReopenTicket(ctx context.Context, agentID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.AgentID != agentID {
		return nil, apperrors.NewForbidden("only the assigned agent may reopen this ticket")
	}
	if ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewInvalidTransition("only closed tickets can be reopened",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status})
	}

	ticket.Status = domain.TicketStatusReopened
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return s.audits.Create(ctx, &domain.Audit{
			TicketID:  ticket.ID,
			ActionBy:  agentID,
			NewStatus: domain.TicketStatusReopened,
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketReopened,
		TicketID: ticket.ID,
		Actor:    agentActor(agentID),
		Payload:  events.TicketReopenedPayload{AgentID: ticket.AgentID},
	})
	return ticket, nil
}

// ListForUser scopes tickets by the caller's position: line staff see their
// own, managers their program, deputy directors their division.
func (s *TicketService) ListForUser(ctx context.Context, user *domain.Person) ([]domain.Ticket, error) {
	var (
		tickets []domain.Ticket
		err     error
	)
	switch user.Role {
	case domain.RoleLineStaff:
		tickets, err = s.tickets.ListByRequester(ctx, user.ID)
	case domain.RoleManager:
		tickets, err = s.tickets.ListByProgram(ctx, user.Program)
	case domain.RoleDeputyDirector:
		tickets, err = s.tickets.ListByDivision(ctx, user.Division)
	default:
		return nil, apperrors.NewForbidden("unknown employee role")
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetForUser fetches a ticket, applying the same position scoping as the
// list.
func (s *TicketService) GetForUser(ctx context.Context, user *domain.Person, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	switch user.Role {
	case domain.RoleLineStaff:
		if ticket.RequesterID != user.ID {
			return nil, apperrors.NewForbidden("access denied")
		}
	case domain.RoleManager:
		if ticket.Program != user.Program {
			return nil, apperrors.NewForbidden("access denied")
		}
	case domain.RoleDeputyDirector:
		if ticket.Division != user.Division {
			return nil, apperrors.NewForbidden("access denied")
		}
	default:
		return nil, apperrors.NewForbidden("unknown employee role")
	}
	return ticket, nil
}

// ListForAgent returns all tickets; agents work across the organization.
func (s *TicketService) ListForAgent(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetForAgent fetches a ticket for an agent.
func (s *TicketService) GetForAgent(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.getTicket(ctx, ticketID)
}

// ListAudits returns the status transition trail of a ticket.
func (s *TicketService) ListAudits(ctx context.Context, ticketID string) ([]domain.Audit, error) {
	audits, err := s.audits.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return audits, nil
}

func (s *TicketService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) getPerson(ctx context.Context, id string) (*domain.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("person", map[string]any{"person_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return person, nil
}

func (s *TicketService) publish(ctx context.Context, evts ...events.Event) {
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
