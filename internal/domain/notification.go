package domain

import "time"

// Notification is a fire-and-forget message addressed to a person.
type Notification struct {
	ID       string
	TicketID string
	UserID   string
	Message  string
	Read     bool
	SentAt   time.Time
}

// AgentNotification is a fire-and-forget message addressed to an agent.
type AgentNotification struct {
	ID       string
	TicketID string
	AgentID  string
	Message  string
	Read     bool
	SentAt   time.Time
}
