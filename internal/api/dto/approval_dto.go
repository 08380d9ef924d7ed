package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// DecisionRequest payload for resolving a pending approval.
type DecisionRequest struct {
	Status   domain.ApprovalStatus `json:"status"`
	Comments string                `json:"comments"`
}

// ResubmitRequest payload for re-arming a rejected approval.
type ResubmitRequest struct {
	Status   domain.ApprovalStatus `json:"status"`
	Comments string                `json:"comments"`
}

// ReassignRequest payload for moving a pending approval to a new recipient.
type ReassignRequest struct {
	RecipientID string `json:"recipient_id"`
}

// ApprovalResponse represents one chain step.
type ApprovalResponse struct {
	ID          string                `json:"id"`
	TicketID    string                `json:"ticket_id"`
	RequestorID string                `json:"requestor_id"`
	AgentID     string                `json:"agent_id"`
	RecipientID string                `json:"recipient_id"`
	Role        domain.EmployeeRole   `json:"role"`
	Kind        domain.ApprovalKind   `json:"kind"`
	Status      domain.ApprovalStatus `json:"status"`
	Comments    string                `json:"comments"`
	CreatedOn   time.Time             `json:"created_on"`
	SubmittedOn *time.Time            `json:"submitted_on"`
}

// DecisionResponse summarizes the chain movement caused by one decision.
type DecisionResponse struct {
	Approval      ApprovalResponse  `json:"approval"`
	NextApproval  *ApprovalResponse `json:"next_approval,omitempty"`
	ChainComplete bool              `json:"chain_complete"`
}
