package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// CrewRepository handles database operations for the crews table
type CrewRepository struct {
	db DB
}

// NewCrewRepository creates a new CrewRepository
func NewCrewRepository(db DB) *CrewRepository {
	return &CrewRepository{db: db}
}

// Create inserts a new crew member
func (r *CrewRepository) Create(crew *models.Crew) error {
	if crew.ID == uuid.Nil {
		crew.ID = uuid.New()
	}

	query := `INSERT INTO crews (id, first_name, last_name) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(query, crew.ID, crew.FirstName, crew.LastName); err != nil {
		return fmt.Errorf("failed to create crew member: %w", err)
	}

	return nil
}

// GetByID retrieves a crew member by ID
func (r *CrewRepository) GetByID(id uuid.UUID) (*models.Crew, error) {
	crew := &models.Crew{}
	query := `SELECT id, first_name, last_name FROM crews WHERE id = $1`

	err := r.db.Get(crew, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get crew member: %w", err)
	}

	return crew, nil
}

// GetAll retrieves all crew members ordered by last name
func (r *CrewRepository) GetAll() ([]models.Crew, error) {
	crews := []models.Crew{}
	query := `SELECT id, first_name, last_name FROM crews ORDER BY last_name, first_name`

	if err := r.db.Select(&crews, query); err != nil {
		return nil, fmt.Errorf("failed to list crew members: %w", err)
	}

	return crews, nil
}

// GetByTripID retrieves the crew assigned to a trip
func (r *CrewRepository) GetByTripID(tripID uuid.UUID) ([]models.Crew, error) {
	crews := []models.Crew{}
	query := `
		SELECT c.id, c.first_name, c.last_name
		FROM crews c
		JOIN trip_crew tc ON tc.crew_id = c.id
		WHERE tc.trip_id = $1
		ORDER BY c.last_name, c.first_name
	`

	if err := r.db.Select(&crews, query, tripID); err != nil {
		return nil, fmt.Errorf("failed to list trip crew: %w", err)
	}

	return crews, nil
}
