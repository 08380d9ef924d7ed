package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// AgentNotificationRepository stores messages addressed to agents.
type AgentNotificationRepository interface {
	Create(ctx context.Context, notification *domain.AgentNotification) error
	ListByAgent(ctx context.Context, agentID string) ([]domain.AgentNotification, error)
	MarkRead(ctx context.Context, id, agentID string) error
}

type agentNotificationRepository struct {
	pool *pgxpool.Pool
}

// NewAgentNotificationRepository instantiates repository.
func NewAgentNotificationRepository(pool *pgxpool.Pool) AgentNotificationRepository {
	return &agentNotificationRepository{pool: pool}
}

func (r *agentNotificationRepository) Create(ctx context.Context, notification *domain.AgentNotification) error {
	const query = `
        INSERT INTO agent_notifications (ticket_id, agent_id, message)
        VALUES ($1,$2,$3)
        RETURNING id, sent_at`
	return querierFor(ctx, r.pool).QueryRow(ctx, query,
		notification.TicketID,
		notification.AgentID,
		notification.Message,
	).Scan(&notification.ID, &notification.SentAt)
}

func (r *agentNotificationRepository) ListByAgent(ctx context.Context, agentID string) ([]domain.AgentNotification, error) {
	const query = `
        SELECT id, ticket_id, agent_id, message, read, sent_at
        FROM agent_notifications WHERE agent_id=$1 ORDER BY sent_at DESC`
	rows, err := querierFor(ctx, r.pool).Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgentNotification
	for rows.Next() {
		var n domain.AgentNotification
		if err := rows.Scan(&n.ID, &n.TicketID, &n.AgentID, &n.Message, &n.Read, &n.SentAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}

func (r *agentNotificationRepository) MarkRead(ctx context.Context, id, agentID string) error {
	const query = `UPDATE agent_notifications SET read=TRUE WHERE id=$1 AND agent_id=$2`
	cmd, err := querierFor(ctx, r.pool).Exec(ctx, query, id, agentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
