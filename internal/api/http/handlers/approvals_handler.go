package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-workflow/internal/api/dto"
	"github.com/spec-kit/helpdesk-workflow/internal/service"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util"
)

// ApprovalsHandler manages employee-facing approval endpoints.
type ApprovalsHandler struct {
	service *service.ApprovalService
}

// NewApprovalsHandler constructs handler.
func NewApprovalsHandler(approvalService *service.ApprovalService) *ApprovalsHandler {
	return &ApprovalsHandler{service: approvalService}
}

// ListApprovals GET /users/approvals.
func (h *ApprovalsHandler) ListApprovals(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	approvals, err := h.service.ListForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ApprovalResponse, 0, len(approvals))
	for i := range approvals {
		items = append(items, approvalResponse(&approvals[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetApproval GET /users/approvals/:id.
func (h *ApprovalsHandler) GetApproval(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	approval, err := h.service.GetForUser(c.Context(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(approval)})
}

// Decide POST /users/approvals/:id/decision.
func (h *ApprovalsHandler) Decide(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Decide(c.Context(), user.ID, c.Params("id"), req.Status, req.Comments)
	if err != nil {
		return err
	}
	resp := dto.DecisionResponse{
		Approval:      approvalResponse(result.Approval),
		ChainComplete: result.ChainComplete,
	}
	if result.NextApproval != nil {
		next := approvalResponse(result.NextApproval)
		resp.NextApproval = &next
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Resubmit POST /users/approvals/:id/resubmit.
func (h *ApprovalsHandler) Resubmit(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.ResubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	approval, err := h.service.ResubmitAsUser(c.Context(), user.ID, c.Params("id"), req.Status, req.Comments)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(approval)})
}

// AgentApprovalsHandler manages agent-facing approval endpoints.
type AgentApprovalsHandler struct {
	service *service.ApprovalService
}

// NewAgentApprovalsHandler constructs handler.
func NewAgentApprovalsHandler(approvalService *service.ApprovalService) *AgentApprovalsHandler {
	return &AgentApprovalsHandler{service: approvalService}
}

// ListApprovals GET /agents/approvals.
func (h *AgentApprovalsHandler) ListApprovals(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	approvals, err := h.service.ListForAgent(c.Context(), agent)
	if err != nil {
		return err
	}
	items := make([]dto.ApprovalResponse, 0, len(approvals))
	for i := range approvals {
		items = append(items, approvalResponse(&approvals[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetApproval GET /agents/approvals/:id.
func (h *AgentApprovalsHandler) GetApproval(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	approval, err := h.service.GetForAgent(c.Context(), agent, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(approval)})
}

// StartDraft POST /agents/tickets/:id/draft.
func (h *AgentApprovalsHandler) StartDraft(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	approval, err := h.service.StartDraft(c.Context(), agent.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": approvalResponse(approval)})
}

// Resubmit POST /agents/approvals/:id/resubmit.
func (h *AgentApprovalsHandler) Resubmit(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	var req dto.ResubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	approval, err := h.service.ResubmitAsAgent(c.Context(), agent.ID, c.Params("id"), req.Status, req.Comments)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(approval)})
}

// Reassign POST /agents/approvals/:id/reassign.
func (h *AgentApprovalsHandler) Reassign(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RecipientID == "" {
		return apperrors.NewValidationError("recipient_id required", nil)
	}
	approval, err := h.service.Reassign(c.Context(), agent.ID, c.Params("id"), req.RecipientID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": approvalResponse(approval)})
}
