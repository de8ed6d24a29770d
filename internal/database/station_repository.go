package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// StationRepository handles database operations for the stations table
type StationRepository struct {
	db DB
}

// NewStationRepository creates a new StationRepository
func NewStationRepository(db DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts a new station. A name conflict is reported as
// models.DuplicateNameError.
func (r *StationRepository) Create(station *models.Station) error {
	if station.ID == uuid.Nil {
		station.ID = uuid.New()
	}

	query := `
		INSERT INTO stations (id, name, latitude, longitude)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, station.ID, station.Name, station.Latitude, station.Longitude)
	if err != nil {
		if isUniqueViolation(err, constraintStationName) {
			return &models.DuplicateNameError{Entity: "station", Name: station.Name}
		}
		return fmt.Errorf("failed to create station: %w", err)
	}

	return nil
}

// GetByID retrieves a station by ID
func (r *StationRepository) GetByID(id uuid.UUID) (*models.Station, error) {
	station := &models.Station{}
	query := `SELECT id, name, latitude, longitude FROM stations WHERE id = $1`

	err := r.db.Get(station, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return station, nil
}

// GetAll retrieves all stations ordered by name
func (r *StationRepository) GetAll() ([]models.Station, error) {
	stations := []models.Station{}
	query := `SELECT id, name, latitude, longitude FROM stations ORDER BY name`

	if err := r.db.Select(&stations, query); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return stations, nil
}
