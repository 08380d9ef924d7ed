package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// SLARepository encapsulates SLA lookups.
type SLARepository interface {
	GetByID(ctx context.Context, id string) (*domain.TicketSLA, error)
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSLARepository instantiates repository.
func NewSLARepository(pool *pgxpool.Pool) SLARepository {
	return &slaRepository{pool: pool}
}

func (r *slaRepository) GetByID(ctx context.Context, id string) (*domain.TicketSLA, error) {
	const query = `SELECT id, sla_type, first_response_seconds, resolution_seconds FROM ticket_sla WHERE id=$1`
	var (
		sla                  domain.TicketSLA
		firstResp, resolution int64
	)
	if err := querierFor(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&sla.ID,
		&sla.Name,
		&firstResp,
		&resolution,
	); err != nil {
		return nil, err
	}
	sla.FirstResponseTime = time.Duration(firstResp) * time.Second
	sla.ResolutionTime = time.Duration(resolution) * time.Second
	return &sla, nil
}
