package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// ApprovalRepository encapsulates approval chain persistence. Rows are
// inserted and updated, never deleted.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error
	Update(ctx context.Context, approval *domain.Approval) error
	GetByID(ctx context.Context, id string) (*domain.Approval, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Approval, error)
	ListForAgent(ctx context.Context, agentID string) ([]domain.Approval, error)
	ListAll(ctx context.Context) ([]domain.Approval, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Approval, error)
}

type approvalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository instantiates repository.
func NewApprovalRepository(pool *pgxpool.Pool) ApprovalRepository {
	return &approvalRepository{pool: pool}
}

const approvalColumns = `id, ticket_id, user_id, agent_id, recipient_id, role, approval_type, status, comments, created_on, submitted_on`

func (r *approvalRepository) Create(ctx context.Context, approval *domain.Approval) error {
	const query = `
        INSERT INTO ticket_approvals (ticket_id, user_id, agent_id, recipient_id, role, approval_type, status, comments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_on`
	return querierFor(ctx, r.pool).QueryRow(ctx, query,
		approval.TicketID,
		approval.RequestorID,
		approval.AgentID,
		approval.RecipientID,
		approval.Role,
		approval.Kind,
		approval.Status,
		approval.Comments,
	).Scan(&approval.ID, &approval.CreatedOn)
}

func (r *approvalRepository) Update(ctx context.Context, approval *domain.Approval) error {
	const query = `
        UPDATE ticket_approvals SET recipient_id=$1, status=$2, comments=$3, submitted_on=$4
        WHERE id=$5`
	cmd, err := querierFor(ctx, r.pool).Exec(ctx, query,
		approval.RecipientID,
		approval.Status,
		approval.Comments,
		approval.SubmittedOn,
		approval.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *approvalRepository) GetByID(ctx context.Context, id string) (*domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM ticket_approvals WHERE id=$1`
	var approval domain.Approval
	if err := scanApproval(querierFor(ctx, r.pool).QueryRow(ctx, query, id), &approval); err != nil {
		return nil, err
	}
	return &approval, nil
}

// ListForUser returns approvals where the user is the recipient or the
// step's requestor.
func (r *approvalRepository) ListForUser(ctx context.Context, userID string) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM ticket_approvals
        WHERE recipient_id=$1 OR user_id=$1 ORDER BY created_on`
	return r.list(ctx, query, userID)
}

func (r *approvalRepository) ListForAgent(ctx context.Context, agentID string) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM ticket_approvals WHERE agent_id=$1 ORDER BY created_on`
	return r.list(ctx, query, agentID)
}

func (r *approvalRepository) ListAll(ctx context.Context) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM ticket_approvals ORDER BY created_on`
	return r.list(ctx, query)
}

func (r *approvalRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Approval, error) {
	query := `SELECT ` + approvalColumns + ` FROM ticket_approvals WHERE ticket_id=$1 ORDER BY created_on`
	return r.list(ctx, query, ticketID)
}

func (r *approvalRepository) list(ctx context.Context, query string, args ...any) ([]domain.Approval, error) {
	rows, err := querierFor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Approval
	for rows.Next() {
		var approval domain.Approval
		if err := scanApproval(rows, &approval); err != nil {
			return nil, err
		}
		result = append(result, approval)
	}
	return result, rows.Err()
}

func scanApproval(row pgx.Row, approval *domain.Approval) error {
	return row.Scan(
		&approval.ID,
		&approval.TicketID,
		&approval.RequestorID,
		&approval.AgentID,
		&approval.RecipientID,
		&approval.Role,
		&approval.Kind,
		&approval.Status,
		&approval.Comments,
		&approval.CreatedOn,
		&approval.SubmittedOn,
	)
}
