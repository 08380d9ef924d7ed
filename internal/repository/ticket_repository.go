package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListByRequester(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListByProgram(ctx context.Context, program string) ([]domain.Ticket, error)
	ListByDivision(ctx context.Context, division string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	CountByGroup(ctx context.Context, groupID string) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, requester_user_id, agent_id, ticket_type_id, sla_id, group_id,
        title, description, category, subcategory, status, priority, division, program, due_date,
        submitted_on, first_response_due, first_response_overdue, resolution_due, resolution_overdue, completed_on,
        feedback_status,
        request_manager_approved, request_manager_approved_on,
        request_deputy_approved, request_deputy_approved_on,
        draft_requestor_approved, draft_requestor_approved_on,
        draft_manager_approved, draft_manager_approved_on,
        draft_deputy_approved, draft_deputy_approved_on`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (requester_user_id, agent_id, ticket_type_id, sla_id, group_id,
            title, description, category, subcategory, status, priority, division, program, due_date,
            first_response_due, resolution_due, feedback_status,
            request_manager_approved, request_manager_approved_on,
            request_deputy_approved, request_deputy_approved_on)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING id, submitted_on`
	return querierFor(ctx, r.pool).QueryRow(ctx, query,
		ticket.RequesterID,
		ticket.AgentID,
		ticket.TicketTypeID,
		ticket.SLAID,
		ticket.GroupID,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Subcategory,
		ticket.Status,
		ticket.Priority,
		ticket.Division,
		ticket.Program,
		ticket.DueDate,
		ticket.FirstResponseDue,
		ticket.ResolutionDue,
		ticket.FeedbackStatus,
		ticket.RequestManagerApproved,
		ticket.RequestManagerApprovedOn,
		ticket.RequestDeputyApproved,
		ticket.RequestDeputyApprovedOn,
	).Scan(&ticket.ID, &ticket.SubmittedOn)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, priority=$2, due_date=$3,
            first_response_overdue=$4, resolution_overdue=$5, completed_on=$6, feedback_status=$7,
            request_manager_approved=$8, request_manager_approved_on=$9,
            request_deputy_approved=$10, request_deputy_approved_on=$11,
            draft_requestor_approved=$12, draft_requestor_approved_on=$13,
            draft_manager_approved=$14, draft_manager_approved_on=$15,
            draft_deputy_approved=$16, draft_deputy_approved_on=$17
        WHERE id=$18`
	cmd, err := querierFor(ctx, r.pool).Exec(ctx, query,
		ticket.Status,
		ticket.Priority,
		ticket.DueDate,
		ticket.FirstResponseOverdue,
		ticket.ResolutionOverdue,
		ticket.CompletedOn,
		ticket.FeedbackStatus,
		ticket.RequestManagerApproved,
		ticket.RequestManagerApprovedOn,
		ticket.RequestDeputyApproved,
		ticket.RequestDeputyApprovedOn,
		ticket.DraftRequestorApproved,
		ticket.DraftRequestorApprovedOn,
		ticket.DraftManagerApproved,
		ticket.DraftManagerApprovedOn,
		ticket.DraftDeputyApproved,
		ticket.DraftDeputyApprovedOn,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(querierFor(ctx, r.pool).QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListByRequester(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE requester_user_id=$1 ORDER BY submitted_on DESC`
	return r.list(ctx, query, userID)
}

func (r *ticketRepository) ListByProgram(ctx context.Context, program string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE program=$1 ORDER BY submitted_on DESC`
	return r.list(ctx, query, program)
}

func (r *ticketRepository) ListByDivision(ctx context.Context, division string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE division=$1 ORDER BY submitted_on DESC`
	return r.list(ctx, query, division)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY submitted_on DESC`
	return r.list(ctx, query)
}

func (r *ticketRepository) CountByGroup(ctx context.Context, groupID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM tickets WHERE group_id=$1`
	var count int64
	if err := querierFor(ctx, r.pool).QueryRow(ctx, query, groupID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := querierFor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.RequesterID,
		&ticket.AgentID,
		&ticket.TicketTypeID,
		&ticket.SLAID,
		&ticket.GroupID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Subcategory,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Division,
		&ticket.Program,
		&ticket.DueDate,
		&ticket.SubmittedOn,
		&ticket.FirstResponseDue,
		&ticket.FirstResponseOverdue,
		&ticket.ResolutionDue,
		&ticket.ResolutionOverdue,
		&ticket.CompletedOn,
		&ticket.FeedbackStatus,
		&ticket.RequestManagerApproved,
		&ticket.RequestManagerApprovedOn,
		&ticket.RequestDeputyApproved,
		&ticket.RequestDeputyApprovedOn,
		&ticket.DraftRequestorApproved,
		&ticket.DraftRequestorApprovedOn,
		&ticket.DraftManagerApproved,
		&ticket.DraftManagerApprovedOn,
		&ticket.DraftDeputyApproved,
		&ticket.DraftDeputyApprovedOn,
	)
}
