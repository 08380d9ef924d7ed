package handlers

import (
	"github.com/spec-kit/helpdesk-workflow/internal/api/dto"
	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func ticketResponse(t *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           t.ID,
		RequesterID:  t.RequesterID,
		AgentID:      t.AgentID,
		TicketTypeID: t.TicketTypeID,
		GroupID:      t.GroupID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Subcategory:  t.Subcategory,
		Status:       t.Status,
		Priority:     t.Priority,
		Division:     t.Division,
		Program:      t.Program,
		DueDate:      t.DueDate,
		SubmittedOn:  t.SubmittedOn,
		CompletedOn:  t.CompletedOn,

		FeedbackStatus: t.FeedbackStatus,

		FirstResponseDue:     t.FirstResponseDue,
		FirstResponseOverdue: t.FirstResponseOverdue,
		ResolutionDue:        t.ResolutionDue,
		ResolutionOverdue:    t.ResolutionOverdue,

		RequestStage: t.RequestStage(),
		DraftStage:   t.DraftStage(),

		RequestManagerApproved:   t.RequestManagerApproved,
		RequestManagerApprovedOn: t.RequestManagerApprovedOn,
		RequestDeputyApproved:    t.RequestDeputyApproved,
		RequestDeputyApprovedOn:  t.RequestDeputyApprovedOn,
		DraftRequestorApproved:   t.DraftRequestorApproved,
		DraftRequestorApprovedOn: t.DraftRequestorApprovedOn,
		DraftManagerApproved:     t.DraftManagerApproved,
		DraftManagerApprovedOn:   t.DraftManagerApprovedOn,
		DraftDeputyApproved:      t.DraftDeputyApproved,
		DraftDeputyApprovedOn:    t.DraftDeputyApprovedOn,
	}
}

func approvalResponse(a *domain.Approval) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		ID:          a.ID,
		TicketID:    a.TicketID,
		RequestorID: a.RequestorID,
		AgentID:     a.AgentID,
		RecipientID: a.RecipientID,
		Role:        a.Role,
		Kind:        a.Kind,
		Status:      a.Status,
		Comments:    a.Comments,
		CreatedOn:   a.CreatedOn,
		SubmittedOn: a.SubmittedOn,
	}
}

func auditResponse(a *domain.Audit) dto.AuditResponse {
	return dto.AuditResponse{
		ID:        a.ID,
		TicketID:  a.TicketID,
		ActionBy:  a.ActionBy,
		NewStatus: a.NewStatus,
		UpdatedOn: a.UpdatedOn,
	}
}

func userNotificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:       n.ID,
		TicketID: n.TicketID,
		Message:  n.Message,
		Read:     n.Read,
		SentAt:   n.SentAt,
	}
}

func agentNotificationResponse(n *domain.AgentNotification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:       n.ID,
		TicketID: n.TicketID,
		Message:  n.Message,
		Read:     n.Read,
		SentAt:   n.SentAt,
	}
}
