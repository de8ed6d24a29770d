package models

import (
	"time"

	"github.com/google/uuid"
)

// Trip represents a scheduled run of a train over a route.
type Trip struct {
	ID            uuid.UUID `json:"id" db:"id"`
	RouteID       uuid.UUID `json:"route_id" db:"route_id"`
	TrainID       uuid.UUID `json:"train_id" db:"train_id"`
	DepartureTime time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time" db:"arrival_time"`
}

// TripListItem is the list projection of a trip. AvailableTickets
// is capacity minus sold tickets, computed by the store in the same
// aggregate pass that loads the list.
type TripListItem struct {
	ID               uuid.UUID `json:"id" db:"id"`
	SourceName       string    `json:"source" db:"source_name"`
	DestinationName  string    `json:"destination" db:"destination_name"`
	TrainName        string    `json:"train" db:"train_name"`
	DepartureTime    time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time" db:"arrival_time"`
	Capacity         int       `json:"capacity" db:"capacity"`
	AvailableTickets int       `json:"available_tickets" db:"available_tickets"`
}

// TakenSlot identifies an already-booked (cargo, seat) pair on a trip.
type TakenSlot struct {
	Cargo int `json:"cargo" db:"cargo"`
	Seat  int `json:"seat" db:"seat"`
}

// TripDetail is the detail projection of a trip, adding the train
// layout, the occupied slots and the assigned crew.
type TripDetail struct {
	TripListItem
	CargoNum     int            `json:"cargo_num"`
	SeatsInCargo int            `json:"seats_in_cargo"`
	TakenSlots   []TakenSlot    `json:"taken_slots"`
	Crew         []CrewListItem `json:"crew"`
}

// TripTrain carries the train layout bounds for a trip, loaded in
// one query for slot validation.
type TripTrain struct {
	TripID       uuid.UUID `db:"trip_id"`
	TrainID      uuid.UUID `db:"train_id"`
	CargoNum     int       `db:"cargo_num"`
	SeatsInCargo int       `db:"seats_in_cargo"`
}

// TripFilter carries the optional list filters parsed from the
// query string.
type TripFilter struct {
	SourceID      *uuid.UUID
	DestinationID *uuid.UUID
	Date          *time.Time // matches the departure day
}

// CreateTripRequest is the payload for POST /trips
type CreateTripRequest struct {
	RouteID       uuid.UUID   `json:"route_id" binding:"required"`
	TrainID       uuid.UUID   `json:"train_id" binding:"required"`
	DepartureTime time.Time   `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time   `json:"arrival_time" binding:"required"`
	CrewIDs       []uuid.UUID `json:"crew_ids"`
}

// UpdateTripRequest is the payload for PUT /trips/:id. Nil fields
// are left unchanged.
type UpdateTripRequest struct {
	RouteID       *uuid.UUID  `json:"route_id"`
	TrainID       *uuid.UUID  `json:"train_id"`
	DepartureTime *time.Time  `json:"departure_time"`
	ArrivalTime   *time.Time  `json:"arrival_time"`
	CrewIDs       []uuid.UUID `json:"crew_ids"`
}
