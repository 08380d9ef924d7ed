package domain

import (
	"fmt"
	"time"
)

// ApprovalKind distinguishes the two chains a ticket passes through.
type ApprovalKind string

const (
	ApprovalKindRequest ApprovalKind = "request"
	ApprovalKindDraft   ApprovalKind = "draft"
)

// ApprovalStatus enumerates the per-row state machine: Pending is the only
// non-terminal state; a Rejected row may be re-armed in place by a
// resubmission.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "Pending"
	ApprovalStatusApproved ApprovalStatus = "Approved"
	ApprovalStatusRejected ApprovalStatus = "Rejected"
)

// Approval is one step of a ticket's approval chain. Rows accumulate per
// ticket as an append-only audit trail; resolved rows are never deleted.
type Approval struct {
	ID          string
	TicketID    string
	RequestorID string
	AgentID     string
	RecipientID string
	Role        EmployeeRole
	Kind        ApprovalKind
	Status      ApprovalStatus
	Comments    string
	CreatedOn   time.Time
	SubmittedOn *time.Time
}

// ApprovalFlag identifies which ticket flag a chain step sets on approval.
type ApprovalFlag string

const (
	FlagRequestManager ApprovalFlag = "request_manager"
	FlagRequestDeputy  ApprovalFlag = "request_deputy"
	FlagDraftRequestor ApprovalFlag = "draft_requestor"
	FlagDraftManager   ApprovalFlag = "draft_manager"
	FlagDraftDeputy    ApprovalFlag = "draft_deputy"
)

// ChainAction is the outcome of approving one chain step: either the chain
// climbs one level to the recipient's supervisor, or it terminates. Flag is
// always set on the ticket.
type ChainAction struct {
	Advance bool
	Flag    ApprovalFlag
}

// NextChainAction is the total mapping from (kind, recipient role) to the
// follow-up of an approved step. Combinations that cannot occur in a valid
// chain are errors rather than silent no-ops.
func NextChainAction(kind ApprovalKind, role EmployeeRole) (ChainAction, error) {
	switch kind {
	case ApprovalKindRequest:
		switch role {
		case RoleManager:
			return ChainAction{Advance: true, Flag: FlagRequestManager}, nil
		case RoleDeputyDirector:
			return ChainAction{Flag: FlagRequestDeputy}, nil
		case RoleLineStaff:
			// Request chains start one level above the requester, so line
			// staff never receive one.
			return ChainAction{}, fmt.Errorf("role %s cannot approve a %s step", role, kind)
		}
	case ApprovalKindDraft:
		switch role {
		case RoleLineStaff:
			return ChainAction{Advance: true, Flag: FlagDraftRequestor}, nil
		case RoleManager:
			return ChainAction{Advance: true, Flag: FlagDraftManager}, nil
		case RoleDeputyDirector:
			return ChainAction{Flag: FlagDraftDeputy}, nil
		}
	}
	return ChainAction{}, fmt.Errorf("no chain step for kind %q role %q", kind, role)
}

// ApplyFlag sets the given approval flag and its timestamp on the ticket.
func (t *Ticket) ApplyFlag(flag ApprovalFlag, at time.Time) {
	switch flag {
	case FlagRequestManager:
		t.RequestManagerApproved = true
		t.RequestManagerApprovedOn = &at
	case FlagRequestDeputy:
		t.RequestDeputyApproved = true
		t.RequestDeputyApprovedOn = &at
	case FlagDraftRequestor:
		t.DraftRequestorApproved = true
		t.DraftRequestorApprovedOn = &at
	case FlagDraftManager:
		t.DraftManagerApproved = true
		t.DraftManagerApprovedOn = &at
	case FlagDraftDeputy:
		t.DraftDeputyApproved = true
		t.DraftDeputyApprovedOn = &at
	}
}
