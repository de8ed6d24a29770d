package services

import (
	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
)

// SlotValidator decides whether a (cargo, seat) pair denotes a
// legal, unoccupied slot on a trip. It is invoked as a fail-fast
// pre-check before the order transaction writes anything; the
// unique index on tickets remains the authoritative guard against
// concurrent bookings of the same slot.
type SlotValidator struct {
	tripRepo  *database.TripRepository
	orderRepo *database.OrderRepository
}

// NewSlotValidator creates a new slot validator
func NewSlotValidator(tripRepo *database.TripRepository, orderRepo *database.OrderRepository) *SlotValidator {
	return &SlotValidator{
		tripRepo:  tripRepo,
		orderRepo: orderRepo,
	}
}

// ValidateBounds checks the cargo and seat indexes against the
// train layout. Both are 1-based.
func ValidateBounds(tt *models.TripTrain, cargo, seat int) error {
	if cargo < 1 || cargo > tt.CargoNum {
		return &models.OutOfRangeError{Field: "cargo", Value: cargo, Min: 1, Max: tt.CargoNum}
	}
	if seat < 1 || seat > tt.SeatsInCargo {
		return &models.OutOfRangeError{Field: "seat", Value: seat, Min: 1, Max: tt.SeatsInCargo}
	}
	return nil
}

// Validate loads the trip's train layout, checks the slot lies
// within it and that it is not already booked.
func (v *SlotValidator) Validate(tripID uuid.UUID, cargo, seat int) error {
	tt, err := v.tripRepo.GetTripTrain(tripID)
	if err != nil {
		return err
	}

	if err := ValidateBounds(tt, cargo, seat); err != nil {
		return err
	}

	taken, err := v.orderRepo.SlotTaken(tripID, cargo, seat)
	if err != nil {
		return err
	}
	if taken {
		return &models.DuplicateSlotError{TripID: tripID, Cargo: cargo, Seat: seat}
	}

	return nil
}
