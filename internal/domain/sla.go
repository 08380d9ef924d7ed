package domain

import "time"

// TicketSLA holds the response and resolution windows for a ticket class.
type TicketSLA struct {
	ID                string
	Name              string
	FirstResponseTime time.Duration
	ResolutionTime    time.Duration
}
