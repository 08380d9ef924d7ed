package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-workflow/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-workflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AgentTickets   *handlers.AgentTicketsHandler
	Approvals      *handlers.ApprovalsHandler
	AgentApprovals *handlers.AgentApprovalsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/login", cfg.Auth.LoginUser)
	authGroup.Post("/agents/login", cfg.Auth.LoginAgent)

	userGroup := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireUser())
	userGroup.Post("/tickets", cfg.Tickets.CreateTicket)
	userGroup.Get("/tickets", cfg.Tickets.ListTickets)
	userGroup.Get("/tickets/:id", cfg.Tickets.GetTicket)

	userGroup.Get("/approvals", cfg.Approvals.ListApprovals)
	userGroup.Get("/approvals/:id", cfg.Approvals.GetApproval)
	userGroup.Post("/approvals/:id/decision", cfg.Approvals.Decide)
	userGroup.Post("/approvals/:id/resubmit", cfg.Approvals.Resubmit)

	userGroup.Get("/notifications", cfg.Notifications.ListForUser)
	userGroup.Post("/notifications/:id/read", cfg.Notifications.MarkReadForUser)

	agentGroup := app.Group("/agents", cfg.AuthMiddleware.Handle, auth.RequireAgent())
	agentGroup.Get("/tickets", cfg.AgentTickets.ListTickets)
	agentGroup.Get("/tickets/:id", cfg.AgentTickets.GetTicket)
	agentGroup.Post("/tickets/:id/close", cfg.AgentTickets.CloseTicket)
	agentGroup.Post("/tickets/:id/reopen", cfg.AgentTickets.ReopenTicket)
	agentGroup.Get("/tickets/:id/audits", cfg.AgentTickets.ListAudits)
	agentGroup.Post("/tickets/:id/draft", cfg.AgentApprovals.StartDraft)

	agentGroup.Get("/approvals", cfg.AgentApprovals.ListApprovals)
	agentGroup.Get("/approvals/:id", cfg.AgentApprovals.GetApproval)
	agentGroup.Post("/approvals/:id/resubmit", cfg.AgentApprovals.Resubmit)
	agentGroup.Post("/approvals/:id/reassign", cfg.AgentApprovals.Reassign)

	agentGroup.Get("/notifications", cfg.Notifications.ListForAgent)
	agentGroup.Post("/notifications/:id/read", cfg.Notifications.MarkReadForAgent)
}
