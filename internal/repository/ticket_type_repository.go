package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// TicketTypeRepository encapsulates ticket type lookups.
type TicketTypeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)
}

type ticketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewTicketTypeRepository instantiates repository.
func NewTicketTypeRepository(pool *pgxpool.Pool) TicketTypeRepository {
	return &ticketTypeRepository{pool: pool}
}

func (r *ticketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	const query = `SELECT id, group_id, sla_id, type_name, category, sub_category FROM ticket_types WHERE id=$1`
	var tt domain.TicketType
	if err := querierFor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&tt.ID,
		&tt.GroupID,
		&tt.SLAID,
		&tt.Name,
		&tt.Category,
		&tt.Subcategory,
	); err != nil {
		return nil, err
	}
	return &tt, nil
}
