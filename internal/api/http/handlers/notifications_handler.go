package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-workflow/internal/api/dto"
	"github.com/spec-kit/helpdesk-workflow/internal/service"
)

// NotificationsHandler exposes stored notifications to users and agents.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// ListForUser GET /users/notifications.
func (h *NotificationsHandler) ListForUser(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	notifications, err := h.service.ListForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, userNotificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkReadForUser POST /users/notifications/:id/read.
func (h *NotificationsHandler) MarkReadForUser(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkReadForUser(c.Context(), c.Params("id"), user.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}

// ListForAgent GET /agents/notifications.
func (h *NotificationsHandler) ListForAgent(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	notifications, err := h.service.ListForAgent(c.Context(), agent.ID)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, agentNotificationResponse(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// MarkReadForAgent POST /agents/notifications/:id/read.
func (h *NotificationsHandler) MarkReadForAgent(c *fiber.Ctx) error {
	agent, err := requireAgent(c)
	if err != nil {
		return err
	}
	if err := h.service.MarkReadForAgent(c.Context(), c.Params("id"), agent.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"read": true}})
}
