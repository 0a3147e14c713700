package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"seatmap-cli/venue"
)

var validate = validator.New()

var ErrEmptySelection = errors.New("no tickets selected")

// LineItem is one ticket as carried to the confirmation screen.
type LineItem struct {
	ID      string  `json:"id" validate:"required"`
	Section string  `json:"section"`
	Row     string  `json:"row"`
	Seat    string  `json:"seat"`
	Price   float64 `json:"price" validate:"gte=0"`
}

// Record is the pending purchase handed from the seat map to checkout.
type Record struct {
	EventID   string     `json:"eventId" validate:"required"`
	TicketIDs []string   `json:"ticketIds" validate:"required,min=1,dive,required"`
	Quantity  int        `json:"quantity" validate:"gte=1"`
	Tickets   []LineItem `json:"tickets" validate:"required,min=1,dive"`
}

// NewRecord builds a record for tickets. Quantity below 1 counts as 1.
func NewRecord(eventID string, tickets []venue.Ticket, quantity int) (Record, error) {
	if len(tickets) == 0 {
		return Record{}, ErrEmptySelection
	}
	record := Record{
		EventID:   eventID,
		Quantity:  max(quantity, 1),
		TicketIDs: make([]string, 0, len(tickets)),
		Tickets:   make([]LineItem, 0, len(tickets)),
	}
	for _, ticket := range tickets {
		record.TicketIDs = append(record.TicketIDs, ticket.ID)
		record.Tickets = append(record.Tickets, LineItem{
			ID:      ticket.ID,
			Section: ticket.Section,
			Row:     ticket.Row,
			Seat:    ticket.Seat,
			Price:   ticket.Price,
		})
	}
	return record, record.Validate()
}

// Total is the sum of line prices times the quantity.
func (r Record) Total() float64 {
	var sum float64
	for _, item := range r.Tickets {
		sum += item.Price
	}
	return sum * float64(max(r.Quantity, 1))
}

func (r Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid checkout record: %w", err)
	}
	if len(r.TicketIDs) != len(r.Tickets) {
		return fmt.Errorf("invalid checkout record: %d ticket ids for %d tickets", len(r.TicketIDs), len(r.Tickets))
	}
	for i, item := range r.Tickets {
		if item.ID != r.TicketIDs[i] {
			return fmt.Errorf("invalid checkout record: ticket %d is %q, expected %q", i, item.ID, r.TicketIDs[i])
		}
	}
	return nil
}

func (r Record) Encode() ([]byte, error) {
	return json.Marshal(r)
}

func Decode(data []byte) (Record, error) {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode checkout record: %w", err)
	}
	return record, record.Validate()
}

// Receipt is a confirmed purchase.
type Receipt struct {
	PurchaseID  string    `json:"purchaseId"`
	EventID     string    `json:"eventId"`
	PurchasedAt time.Time `json:"purchasedAt"`
	Total       float64   `json:"total"`
	Record      Record    `json:"record"`
}

// Confirm turns a valid record into a receipt. Nothing is charged.
func Confirm(record Record, now time.Time) (Receipt, error) {
	if err := record.Validate(); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		PurchaseID:  uuid.NewString(),
		EventID:     record.EventID,
		PurchasedAt: now,
		Total:       record.Total(),
		Record:      record,
	}, nil
}
