package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/persistence"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util"
)

// AssignmentService picks the agent a new ticket is routed to: a round-robin
// rotation over the active agents of the ticket's group.
type AssignmentService struct {
	agents  repository.AgentRepository
	tickets repository.TicketRepository
	redis   *persistence.Redis
	logger  *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(agents repository.AgentRepository, tickets repository.TicketRepository, redis *persistence.Redis, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{agents: agents, tickets: tickets, redis: redis, logger: logger}
}

// SelectAgent returns the next agent in the group's rotation.
func (s *AssignmentService) SelectAgent(ctx context.Context, groupID string) (*domain.Agent, error) {
	agents, err := s.agents.ListActiveByGroup(ctx, groupID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(agents) == 0 {
		return nil, apperrors.NewConflict("no active agents in group", map[string]any{"group_id": groupID})
	}
	agent := agents[s.rotationIndex(ctx, groupID, len(agents))]
	return &agent, nil
}

// rotationIndex prefers a redis cursor so concurrent creations rotate
// cleanly; without redis it falls back to the group's ticket count modulo
// the agent pool size.
func (s *AssignmentService) rotationIndex(ctx context.Context, groupID string, size int) int {
	if s.redis != nil && s.redis.Client != nil {
		cursor, err := s.redis.Client.Incr(ctx, "assignment_cursor:"+groupID).Result()
		if err == nil {
			return int((cursor - 1) % int64(size))
		}
		s.logger.Warn("assignment cursor unavailable, using ticket count",
			zap.String("group_id", groupID), zap.Error(err))
	}
	count, err := s.tickets.CountByGroup(ctx, groupID)
	if err != nil {
		s.logger.Warn("ticket count unavailable, assigning first agent",
			zap.String("group_id", groupID), zap.Error(err))
		return 0
	}
	return int(count % int64(size))
}
