package events

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApprovalRequested   EventType = "approval_requested"
	EventApprovalDecided     EventType = "approval_decided"
	EventApprovalResubmitted EventType = "approval_resubmitted"
	EventWorkAuthorized      EventType = "work_authorized"
	EventTicketClosed        EventType = "ticket_closed"
	EventTicketReopened      EventType = "ticket_reopened"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	UserID  *string            `json:"user_id,omitempty"`
	AgentID *string            `json:"agent_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApprovalRequestedPayload announces a new or re-armed pending approval to
// its recipient.
type ApprovalRequestedPayload struct {
	ApprovalID   string              `json:"approval_id"`
	RecipientID  string              `json:"recipient_id"`
	Kind         domain.ApprovalKind `json:"kind"`
	Resubmission bool                `json:"resubmission,omitempty"`
}

// ApprovalDecidedPayload carries a decision to the chain counterparty:
// request kind addresses the ticket requester, draft kind the assigned agent.
type ApprovalDecidedPayload struct {
	ApprovalID    string                `json:"approval_id"`
	Kind          domain.ApprovalKind   `json:"kind"`
	Decision      domain.ApprovalStatus `json:"decision"`
	DecidedByName string                `json:"decided_by_name"`
	RequesterID   string                `json:"requester_id"`
	AgentID       string                `json:"agent_id"`
}

// WorkAuthorizedPayload tells the assigned agent the request cycle is done.
type WorkAuthorizedPayload struct {
	AgentID string `json:"agent_id"`
}

// TicketClosedPayload notifies the requester of closure.
type TicketClosedPayload struct {
	RequesterID string `json:"requester_id"`
}

// TicketReopenedPayload notifies the assigned agent of a reopened ticket.
type TicketReopenedPayload struct {
	AgentID string `json:"agent_id"`
}
