package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
)

// NotificationService converts workflow events into stored notifications.
// Delivery is best-effort: failures are logged and swallowed so they never
// unwind the workflow mutation that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.NotificationRepository
	agents     repository.AgentNotificationRepository
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, users repository.NotificationRepository, agents repository.AgentNotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		users:      users,
		agents:     agents,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to workflow events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApprovalRequested, n.handleApprovalRequested)
	n.dispatcher.Subscribe(events.EventApprovalResubmitted, n.handleApprovalRequested)
	n.dispatcher.Subscribe(events.EventApprovalDecided, n.handleApprovalDecided)
	n.dispatcher.Subscribe(events.EventWorkAuthorized, n.handleWorkAuthorized)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
	n.dispatcher.Subscribe(events.EventTicketReopened, n.handleTicketReopened)
}

func (n *NotificationService) handleApprovalRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApprovalRequestedPayload)
	if !ok {
		return nil
	}
	var message string
	switch {
	case payload.Resubmission:
		message = fmt.Sprintf("You have a pending resubmission %s approval to review for ticket %s", payload.Kind, event.TicketID)
	default:
		message = fmt.Sprintf("Pending %s approval request for ticket #%s", payload.Kind, event.TicketID)
	}
	n.notifyUser(ctx, event.TicketID, payload.RecipientID, message)
	return nil
}

func (n *NotificationService) handleApprovalDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApprovalDecidedPayload)
	if !ok {
		return nil
	}
	verb := "accepted"
	if payload.Decision == domain.ApprovalStatusRejected {
		verb = "rejected"
	}
	message := fmt.Sprintf("Approval %s by %s on ticket: %s", verb, payload.DecidedByName, event.TicketID)

	// Draft decisions concern the agent driving closure; request decisions
	// go back to the ticket's original requester.
	if payload.Kind == domain.ApprovalKindDraft {
		n.notifyAgent(ctx, event.TicketID, payload.AgentID, message)
	} else {
		n.notifyUser(ctx, event.TicketID, payload.RequesterID, message)
	}
	return nil
}

func (n *NotificationService) handleWorkAuthorized(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.WorkAuthorizedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Ticket #%s has had the request approval cycle completed. Please begin work on items", event.TicketID)
	n.notifyAgent(ctx, event.TicketID, payload.AgentID, message)
	return nil
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	n.notifyUser(ctx, event.TicketID, payload.RequesterID, fmt.Sprintf("Ticket #%s has been closed", event.TicketID))
	return nil
}

func (n *NotificationService) handleTicketReopened(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketReopenedPayload)
	if !ok {
		return nil
	}
	n.notifyAgent(ctx, event.TicketID, payload.AgentID, fmt.Sprintf("Ticket #%s has been reopened", event.TicketID))
	return nil
}

func (n *NotificationService) notifyUser(ctx context.Context, ticketID, userID, message string) {
	if n.users == nil {
		return
	}
	err := n.users.Create(ctx, &domain.Notification{
		TicketID: ticketID,
		UserID:   userID,
		Message:  message,
	})
	if err != nil {
		n.logger.Warn("user notification not delivered",
			zap.String("ticket_id", ticketID),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}

func (n *NotificationService) notifyAgent(ctx context.Context, ticketID, agentID, message string) {
	if n.agents == nil {
		return
	}
	err := n.agents.Create(ctx, &domain.AgentNotification{
		TicketID: ticketID,
		AgentID:  agentID,
		Message:  message,
	})
	if err != nil {
		n.logger.Warn("agent notification not delivered",
			zap.String("ticket_id", ticketID),
			zap.String("agent_id", agentID),
			zap.Error(err))
	}
}

// ListForUser returns a user's notifications.
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return n.users.ListByUser(ctx, userID)
}

// MarkReadForUser flags one user notification as read.
func (n *NotificationService) MarkReadForUser(ctx context.Context, id, userID string) error {
	return n.users.MarkRead(ctx, id, userID)
}

// ListForAgent returns an agent's notifications.
func (n *NotificationService) ListForAgent(ctx context.Context, agentID string) ([]domain.AgentNotification, error) {
	return n.agents.ListByAgent(ctx, agentID)
}

// MarkReadForAgent flags one agent notification as read.
func (n *NotificationService) MarkReadForAgent(ctx context.Context, id, agentID string) error {
	return n.agents.MarkRead(ctx, id, agentID)
}
