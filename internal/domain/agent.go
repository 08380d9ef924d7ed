package domain

import "time"

// AgentType enumerates helpdesk operator roles.
type AgentType string

const (
	AgentTypeStandard AgentType = "STANDARD"
	AgentTypeAdmin    AgentType = "ADMIN"
)

// Agent is the staff member assigned to work tickets. Agents sit outside
// the approval hierarchy; they trigger draft sign-off and reassignment.
type Agent struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Type         AgentType
	GroupID      string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
