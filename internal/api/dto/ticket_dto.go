package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	TicketTypeID string                `json:"ticket_type_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Priority     domain.TicketPriority `json:"priority"`
	DueDate      *time.Time            `json:"due_date"`
}

// TicketResponse provides full ticket info including approval progress.
type TicketResponse struct {
	ID           string                 `json:"id"`
	RequesterID  string                 `json:"requester_id"`
	AgentID      string                 `json:"agent_id"`
	TicketTypeID string                 `json:"ticket_type_id"`
	GroupID      string                 `json:"group_id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"`
	Subcategory  string                 `json:"subcategory"`
	Status       domain.TicketStatus    `json:"status"`
	Priority     domain.TicketPriority  `json:"priority"`
	Division     string                 `json:"division"`
	Program      string                 `json:"program"`
	DueDate      *time.Time             `json:"due_date"`
	SubmittedOn  time.Time              `json:"submitted_on"`
	CompletedOn  *time.Time             `json:"completed_on"`

	FeedbackStatus *domain.FeedbackStatus `json:"feedback_status"`

	FirstResponseDue     *time.Time `json:"first_response_due"`
	FirstResponseOverdue bool       `json:"first_response_overdue"`
	ResolutionDue        *time.Time `json:"resolution_due"`
	ResolutionOverdue    bool       `json:"resolution_overdue"`

	RequestStage domain.ChainStage `json:"request_stage"`
	DraftStage   domain.ChainStage `json:"draft_stage"`

	RequestManagerApproved   bool       `json:"request_manager_approved"`
	RequestManagerApprovedOn *time.Time `json:"request_manager_approved_on"`
	RequestDeputyApproved    bool       `json:"request_deputy_approved"`
	RequestDeputyApprovedOn  *time.Time `json:"request_deputy_approved_on"`
	DraftRequestorApproved   bool       `json:"draft_requestor_approved"`
	DraftRequestorApprovedOn *time.Time `json:"draft_requestor_approved_on"`
	DraftManagerApproved     bool       `json:"draft_manager_approved"`
	DraftManagerApprovedOn   *time.Time `json:"draft_manager_approved_on"`
	DraftDeputyApproved      bool       `json:"draft_deputy_approved"`
	DraftDeputyApprovedOn    *time.Time `json:"draft_deputy_approved_on"`
}

// AuditResponse represents one recorded status transition.
type AuditResponse struct {
	ID        string              `json:"id"`
	TicketID  string              `json:"ticket_id"`
	ActionBy  string              `json:"action_by"`
	NewStatus domain.TicketStatus `json:"new_status"`
	UpdatedOn time.Time           `json:"updated_on"`
}
