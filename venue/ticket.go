package venue

import "fmt"

// Ticket is a sellable seat as listed by the ticket panel.
type Ticket struct {
	ID        string  `json:"id"`
	EventID   string  `json:"eventId"`
	SectionID string  `json:"sectionId"`
	Section   string  `json:"section"`
	Row       string  `json:"row"`
	Seat      string  `json:"seat"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
}

func (t Ticket) SeatID() SeatID {
	return SeatID{Section: t.SectionID, Row: t.Row, Seat: t.Seat}
}

func TicketID(eventID string, seat SeatID) string {
	return fmt.Sprintf("ticket-%s-%s", eventID, seat)
}

// Tickets derives one ticket per seat, in layout order.
func Tickets(layout *Layout) []Ticket {
	if layout == nil {
		return nil
	}
	var tickets []Ticket
	for _, section := range layout.Sections {
		for _, row := range section.Rows {
			for _, seat := range row.Seats {
				id := SeatID{Section: section.ID, Row: row.Label, Seat: seat.Label}
				tickets = append(tickets, Ticket{
					ID:        TicketID(layout.EventID, id),
					EventID:   layout.EventID,
					SectionID: section.ID,
					Section:   section.Name,
					Row:       row.Label,
					Seat:      seat.Label,
					Price:     seat.Price,
					Available: seat.Available,
				})
			}
		}
	}
	return tickets
}
