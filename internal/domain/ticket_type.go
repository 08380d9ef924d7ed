package domain

// TicketType categorizes tickets and binds them to a group and SLA.
type TicketType struct {
	ID          string
	GroupID     string
	SLAID       string
	Name        string
	Category    string
	Subcategory string
}
