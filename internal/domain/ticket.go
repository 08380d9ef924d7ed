package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusClosed   TicketStatus = "CLOSED"
	TicketStatusReopened TicketStatus = "REOPENED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// FeedbackStatus marks which approval cycle a ticket is in.
type FeedbackStatus string

const (
	FeedbackStatusRequest FeedbackStatus = "request"
	FeedbackStatusDraft   FeedbackStatus = "draft"
)

// Ticket is the workflow subject. The five approval flags are monotonic
// within one workflow cycle: once true they are only reset by starting a
// brand-new draft cycle.
type Ticket struct {
	ID           string
	RequesterID  string
	AgentID      string
	TicketTypeID string
	SLAID        string
	GroupID      string
	Title        string
	Description  string
	Category     string
	Subcategory  string
	Status       TicketStatus
	Priority     TicketPriority
	Division     string
	Program      string
	DueDate      *time.Time

	SubmittedOn          time.Time
	FirstResponseDue     *time.Time
	FirstResponseOverdue bool
	ResolutionDue        *time.Time
	ResolutionOverdue    bool
	CompletedOn          *time.Time

	FeedbackStatus *FeedbackStatus

	RequestManagerApproved   bool
	RequestManagerApprovedOn *time.Time
	RequestDeputyApproved    bool
	RequestDeputyApprovedOn  *time.Time
	DraftRequestorApproved   bool
	DraftRequestorApprovedOn *time.Time
	DraftManagerApproved     bool
	DraftManagerApprovedOn   *time.Time
	DraftDeputyApproved      bool
	DraftDeputyApprovedOn    *time.Time
}

// ChainStage is the linear progress of one approval chain, derived from the
// ticket's boolean flags.
type ChainStage string

const (
	StageNotStarted        ChainStage = "NOT_STARTED"
	StageAwaitingRequestor ChainStage = "AWAITING_REQUESTOR"
	StageAwaitingManager   ChainStage = "AWAITING_MANAGER"
	StageAwaitingDeputy    ChainStage = "AWAITING_DEPUTY"
	StageComplete          ChainStage = "COMPLETE"
)

// RequestStage derives the request chain's progress from the ticket flags.
func (t *Ticket) RequestStage() ChainStage {
	switch {
	case t.RequestDeputyApproved:
		return StageComplete
	case t.RequestManagerApproved:
		return StageAwaitingDeputy
	case t.FeedbackStatus != nil && *t.FeedbackStatus == FeedbackStatusRequest:
		return StageAwaitingManager
	}
	return StageNotStarted
}

// DraftStage derives the draft chain's progress from the ticket flags.
func (t *Ticket) DraftStage() ChainStage {
	switch {
	case t.DraftDeputyApproved:
		return StageComplete
	case t.DraftManagerApproved:
		return StageAwaitingDeputy
	case t.DraftRequestorApproved:
		return StageAwaitingManager
	case t.FeedbackStatus != nil && *t.FeedbackStatus == FeedbackStatusDraft:
		return StageAwaitingRequestor
	}
	return StageNotStarted
}
