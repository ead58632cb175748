package tickets

import "context"

// CountTickets returns the total count of tickets
func (s *TicketService) CountTickets(ctx context.Context) (int, error) {
	return s.DB.CountTickets(ctx)
}
