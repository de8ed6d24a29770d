// Domain error types shared between services, repositories and
// handlers. Handlers translate these into 4xx responses; anything
// else coming out of the store is a server fault and must not leak
// its raw message to the client.
package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrEmptyOrder is returned when an order is submitted with no
// ticket requests. It is rejected before any store access.
var ErrEmptyOrder = errors.New("order must contain at least one ticket")

// ErrRouteSameStation is returned when a route's source and
// destination reference the same station.
var ErrRouteSameStation = errors.New("route source and destination must differ")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrArrivalBeforeDeparture is returned when a trip's arrival time
// does not follow its departure time.
var ErrArrivalBeforeDeparture = errors.New("arrival time must be after departure time")

// OutOfRangeError indicates a cargo or seat index outside the
// train's physical bounds. It carries the offending field and its
// valid range so the client can surface it.
type OutOfRangeError struct {
	Field string // "cargo" or "seat"
	Value int
	Min   int
	Max   int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d is out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// DuplicateSlotError indicates the requested (cargo, seat) pair is
// already booked on the trip. Retrying with the same input will
// fail again; the client should offer another seat.
type DuplicateSlotError struct {
	TripID uuid.UUID
	Cargo  int
	Seat   int
}

func (e *DuplicateSlotError) Error() string {
	return fmt.Sprintf("slot (cargo %d, seat %d) on trip %s is already booked", e.Cargo, e.Seat, e.TripID)
}

// DuplicateNameError indicates a uniqueness conflict on a named
// reference entity (station, train, train type) or a route pair.
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Name)
}
