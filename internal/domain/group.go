package domain

// Group is an agent pool tickets are routed to.
type Group struct {
	ID   string
	Name string
}
