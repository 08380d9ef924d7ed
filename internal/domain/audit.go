package domain

import "time"

// Audit records a ticket status transition triggered outside the approval
// chain (close, reopen).
type Audit struct {
	ID        string
	TicketID  string
	ActionBy  string
	NewStatus TicketStatus
	UpdatedOn time.Time
}
