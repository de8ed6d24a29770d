package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railstation/train-station-backend/internal/models"
)

// tripSelectColumns is the shared projection for trip reads. The
// availability aggregate is identical for the list and detail
// paths, so the two can never drift apart.
const tripSelectColumns = `
	SELECT tr.id, src.name AS source_name, dst.name AS destination_name,
	       tn.name AS train_name, tr.departure_time, tr.arrival_time,
	       tn.cargo_num * tn.seats_in_cargo AS capacity,
	       tn.cargo_num * tn.seats_in_cargo - COUNT(tk.id) AS available_tickets
	FROM trips tr
	JOIN routes r ON r.id = tr.route_id
	JOIN stations src ON src.id = r.source_id
	JOIN stations dst ON dst.id = r.destination_id
	JOIN trains tn ON tn.id = tr.train_id
	LEFT JOIN tickets tk ON tk.trip_id = tr.id
`

const tripGroupBy = `
	GROUP BY tr.id, src.name, dst.name, tn.name,
	         tr.departure_time, tr.arrival_time, tn.cargo_num, tn.seats_in_cargo
`

// TripRepository handles database operations for trips and their
// crew assignments. It needs *sqlx.DB rather than the DB interface
// because create and update span multiple tables in one transaction.
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Create inserts a trip and its crew assignments in a transaction
func (r *TripRepository) Create(trip *models.Trip, crewIDs []uuid.UUID) error {
	if !trip.ArrivalTime.After(trip.DepartureTime) {
		return models.ErrArrivalBeforeDeparture
	}

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trips (id, route_id, train_id, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := tx.Exec(query, trip.ID, trip.RouteID, trip.TrainID, trip.DepartureTime, trip.ArrivalTime); err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}

	if err := replaceTripCrew(tx, trip.ID, crewIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Update applies the changed fields of a trip and, when crewIDs is
// non-nil, replaces its crew assignments.
func (r *TripRepository) Update(trip *models.Trip, crewIDs []uuid.UUID) error {
	if !trip.ArrivalTime.After(trip.DepartureTime) {
		return models.ErrArrivalBeforeDeparture
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE trips
		SET route_id = $2, train_id = $3, departure_time = $4, arrival_time = $5
		WHERE id = $1
	`

	result, err := tx.Exec(query, trip.ID, trip.RouteID, trip.TrainID, trip.DepartureTime, trip.ArrivalTime)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	if crewIDs != nil {
		if _, err := tx.Exec(`DELETE FROM trip_crew WHERE trip_id = $1`, trip.ID); err != nil {
			return fmt.Errorf("failed to clear trip crew: %w", err)
		}
		if err := replaceTripCrew(tx, trip.ID, crewIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes a trip. Tickets and crew assignments go with it
// via ON DELETE CASCADE.
func (r *TripRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByID retrieves the raw trip row
func (r *TripRepository) GetByID(id uuid.UUID) (*models.Trip, error) {
	trip := &models.Trip{}
	query := `SELECT id, route_id, train_id, departure_time, arrival_time FROM trips WHERE id = $1`

	err := r.db.Get(trip, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return trip, nil
}

// GetTripTrain loads the train layout bounds for a trip in one query
func (r *TripRepository) GetTripTrain(tripID uuid.UUID) (*models.TripTrain, error) {
	tt := &models.TripTrain{}
	query := `
		SELECT tr.id AS trip_id, tn.id AS train_id, tn.cargo_num, tn.seats_in_cargo
		FROM trips tr
		JOIN trains tn ON tn.id = tr.train_id
		WHERE tr.id = $1
	`

	err := r.db.Get(tt, query, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip train: %w", err)
	}

	return tt, nil
}

// List retrieves trips matching the filter, each with capacity and
// available-ticket count computed in the same single aggregate pass.
func (r *TripRepository) List(filter models.TripFilter) ([]models.TripListItem, error) {
	query := tripSelectColumns
	args := []interface{}{}
	where := ""
	argIdx := 1

	addCondition := func(cond string, value interface{}) {
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.SourceID != nil {
		addCondition("r.source_id = $%d", *filter.SourceID)
	}
	if filter.DestinationID != nil {
		addCondition("r.destination_id = $%d", *filter.DestinationID)
	}
	if filter.Date != nil {
		addCondition("tr.departure_time::date = $%d::date", *filter.Date)
	}

	query += where + tripGroupBy + " ORDER BY tr.departure_time"

	trips := []models.TripListItem{}
	if err := r.db.Select(&trips, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// GetListItem retrieves a single trip through the same aggregate
// used by List.
func (r *TripRepository) GetListItem(id uuid.UUID) (*models.TripListItem, error) {
	query := tripSelectColumns + " WHERE tr.id = $1" + tripGroupBy

	item := &models.TripListItem{}
	err := r.db.Get(item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return item, nil
}

// GetTakenSlots retrieves the occupied (cargo, seat) pairs of a trip
func (r *TripRepository) GetTakenSlots(tripID uuid.UUID) ([]models.TakenSlot, error) {
	slots := []models.TakenSlot{}
	query := `SELECT cargo, seat FROM tickets WHERE trip_id = $1 ORDER BY cargo, seat`

	if err := r.db.Select(&slots, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list taken slots: %w", err)
	}

	return slots, nil
}

// replaceTripCrew inserts crew assignments for a trip inside tx
func replaceTripCrew(tx *sqlx.Tx, tripID uuid.UUID, crewIDs []uuid.UUID) error {
	for _, crewID := range crewIDs {
		if _, err := tx.Exec(
			`INSERT INTO trip_crew (trip_id, crew_id) VALUES ($1, $2)`,
			tripID, crewID,
		); err != nil {
			return fmt.Errorf("failed to assign crew member %s: %w", crewID, err)
		}
	}
	return nil
}
