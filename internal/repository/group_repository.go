package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// GroupRepository encapsulates group lookups.
type GroupRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Group, error)
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository instantiates repository.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	const query = `SELECT id, group_name FROM groups WHERE id=$1`
	var group domain.Group
	if err := querierFor(ctx, r.pool).QueryRow(ctx, query, id).Scan(&group.ID, &group.Name); err != nil {
		return nil, err
	}
	return &group, nil
}
