package models

import (
	"time"

	"github.com/google/uuid"
)

// Order groups the tickets bought in a single checkout. Orders are
// immutable once created.
type Order struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Ticket represents one booked slot on a trip. The (trip, cargo,
// seat) triple is unique, enforced by the store.
type Ticket struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OrderID uuid.UUID `json:"order_id" db:"order_id"`
	TripID  uuid.UUID `json:"trip_id" db:"trip_id"`
	Cargo   int       `json:"cargo" db:"cargo"`
	Seat    int       `json:"seat" db:"seat"`
}

// TicketRequest is one requested slot inside an order submission.
type TicketRequest struct {
	TripID uuid.UUID `json:"trip" binding:"required"`
	Cargo  int       `json:"cargo" binding:"required"`
	Seat   int       `json:"seat" binding:"required"`
}

// CreateOrderRequest is the payload for POST /orders
type CreateOrderRequest struct {
	Tickets []TicketRequest `json:"tickets"`
}

// TicketListItem is the ticket projection inside an order listing,
// with a short trip summary resolved for display.
type TicketListItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	TripID          uuid.UUID `json:"trip_id" db:"trip_id"`
	Cargo           int       `json:"cargo" db:"cargo"`
	Seat            int       `json:"seat" db:"seat"`
	SourceName      string    `json:"source" db:"source_name"`
	DestinationName string    `json:"destination" db:"destination_name"`
	DepartureTime   time.Time `json:"departure_time" db:"departure_time"`
}

// OrderWithTickets is the order projection returned by creation and
// listing, embedding the tickets in request order.
type OrderWithTickets struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []TicketListItem `json:"tickets"`
}

// OrderFilter carries the optional list filters for GET /orders.
type OrderFilter struct {
	SourceID  *uuid.UUID // trip's route source
	Ascending bool       // created_at order; default is descending
}
