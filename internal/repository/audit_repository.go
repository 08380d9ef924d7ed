package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// AuditRepository stores ticket status transition entries.
type AuditRepository interface {
	Create(ctx context.Context, audit *domain.Audit) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, audit *domain.Audit) error {
	const query = `
        INSERT INTO audits (ticket_id, action_by, new_status)
        VALUES ($1,$2,$3)
        RETURNING id, updated_on`
	return querierFor(ctx, r.pool).QueryRow(ctx, query,
		audit.TicketID,
		audit.ActionBy,
		audit.NewStatus,
	).Scan(&audit.ID, &audit.UpdatedOn)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error) {
	const query = `
        SELECT id, ticket_id, action_by, new_status, updated_on
        FROM audits WHERE ticket_id=$1 ORDER BY updated_on`
	rows, err := querierFor(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Audit
	for rows.Next() {
		var audit domain.Audit
		if err := rows.Scan(&audit.ID, &audit.TicketID, &audit.ActionBy, &audit.NewStatus, &audit.UpdatedOn); err != nil {
			return nil, err
		}
		result = append(result, audit)
	}
	return result, rows.Err()
}
