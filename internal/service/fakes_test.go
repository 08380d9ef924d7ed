package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
)

// directTx runs the unit of work without a database.
type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingDispatcher collects published events for assertions.
type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fakePersonRepo struct {
	people map[string]domain.Person
}

func newFakePersonRepo(people ...domain.Person) *fakePersonRepo {
	r := &fakePersonRepo{people: map[string]domain.Person{}}
	for _, p := range people {
		r.people[p.ID] = p
	}
	return r
}

func (r *fakePersonRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *fakePersonRepo) GetByEmail(_ context.Context, email string) (*domain.Person, error) {
	for _, p := range r.people {
		if p.Email == email {
			person := p
			return &person, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeAgentRepo struct {
	agents []domain.Agent
}

func (r *fakeAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	for _, a := range r.agents {
		if a.ID == id {
			agent := a
			return &agent, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	for _, a := range r.agents {
		if a.Email == email {
			agent := a
			return &agent, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAgentRepo) ListActiveByGroup(_ context.Context, groupID string) ([]domain.Agent, error) {
	var out []domain.Agent
	for _, a := range r.agents {
		if a.GroupID == groupID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeTicketRepo struct {
	tickets map[string]domain.Ticket
	seq     int
}

func newFakeTicketRepo(tickets ...domain.Ticket) *fakeTicketRepo {
	r := &fakeTicketRepo{tickets: map[string]domain.Ticket{}}
	for _, t := range tickets {
		r.tickets[t.ID] = t
	}
	return r
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

func (r *fakeTicketRepo) ListByRequester(_ context.Context, userID string) ([]domain.Ticket, error) {
	return r.filter(func(t domain.Ticket) bool { return t.RequesterID == userID }), nil
}

func (r *fakeTicketRepo) ListByProgram(_ context.Context, program string) ([]domain.Ticket, error) {
	return r.filter(func(t domain.Ticket) bool { return t.Program == program }), nil
}

func (r *fakeTicketRepo) ListByDivision(_ context.Context, division string) ([]domain.Ticket, error) {
	return r.filter(func(t domain.Ticket) bool { return t.Division == division }), nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	return r.filter(func(domain.Ticket) bool { return true }), nil
}

func (r *fakeTicketRepo) CountByGroup(_ context.Context, groupID string) (int64, error) {
	var count int64
	for _, t := range r.tickets {
		if t.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) filter(keep func(domain.Ticket) bool) []domain.Ticket {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

type fakeApprovalRepo struct {
	approvals map[string]domain.Approval
	order     []string
	seq       int
}

func newFakeApprovalRepo(approvals ...domain.Approval) *fakeApprovalRepo {
	r := &fakeApprovalRepo{approvals: map[string]domain.Approval{}}
	for _, a := range approvals {
		r.approvals[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	return r
}

func (r *fakeApprovalRepo) Create(_ context.Context, approval *domain.Approval) error {
	r.seq++
	approval.ID = fmt.Sprintf("approval-%d", r.seq)
	r.approvals[approval.ID] = *approval
	r.order = append(r.order, approval.ID)
	return nil
}

func (r *fakeApprovalRepo) Update(_ context.Context, approval *domain.Approval) error {
	if _, ok := r.approvals[approval.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.approvals[approval.ID] = *approval
	return nil
}

func (r *fakeApprovalRepo) GetByID(_ context.Context, id string) (*domain.Approval, error) {
	a, ok := r.approvals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (r *fakeApprovalRepo) ListForUser(_ context.Context, userID string) ([]domain.Approval, error) {
	return r.filter(func(a domain.Approval) bool {
		return a.RecipientID == userID || a.RequestorID == userID
	}), nil
}

func (r *fakeApprovalRepo) ListForAgent(_ context.Context, agentID string) ([]domain.Approval, error) {
	return r.filter(func(a domain.Approval) bool { return a.AgentID == agentID }), nil
}

func (r *fakeApprovalRepo) ListAll(_ context.Context) ([]domain.Approval, error) {
	return r.filter(func(domain.Approval) bool { return true }), nil
}

func (r *fakeApprovalRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Approval, error) {
	return r.filter(func(a domain.Approval) bool { return a.TicketID == ticketID }), nil
}

func (r *fakeApprovalRepo) filter(keep func(domain.Approval) bool) []domain.Approval {
	var out []domain.Approval
	for _, id := range r.order {
		if a := r.approvals[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}

type fakeGroupRepo struct {
	groups map[string]domain.Group
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &g, nil
}

type fakeTicketTypeRepo struct {
	types map[string]domain.TicketType
}

func (r *fakeTicketTypeRepo) GetByID(_ context.Context, id string) (*domain.TicketType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &t, nil
}

type fakeSLARepo struct {
	slas map[string]domain.TicketSLA
}

func (r *fakeSLARepo) GetByID(_ context.Context, id string) (*domain.TicketSLA, error) {
	s, ok := r.slas[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &s, nil
}

type fakeAuditRepo struct {
	audits []domain.Audit
}

func (r *fakeAuditRepo) Create(_ context.Context, audit *domain.Audit) error {
	r.audits = append(r.audits, *audit)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Audit, error) {
	var out []domain.Audit
	for _, a := range r.audits {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []domain.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeAgentNotificationRepo struct {
	notifications []domain.AgentNotification
}

func (r *fakeAgentNotificationRepo) Create(_ context.Context, n *domain.AgentNotification) error {
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeAgentNotificationRepo) ListByAgent(_ context.Context, agentID string) ([]domain.AgentNotification, error) {
	var out []domain.AgentNotification
	for _, n := range r.notifications {
		if n.AgentID == agentID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeAgentNotificationRepo) MarkRead(_ context.Context, id, agentID string) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].AgentID == agentID {
			r.notifications[i].Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}
