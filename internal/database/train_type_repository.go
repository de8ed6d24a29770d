package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// TrainTypeRepository handles database operations for the train_types table
type TrainTypeRepository struct {
	db DB
}

// NewTrainTypeRepository creates a new TrainTypeRepository
func NewTrainTypeRepository(db DB) *TrainTypeRepository {
	return &TrainTypeRepository{db: db}
}

// Create inserts a new train type
func (r *TrainTypeRepository) Create(trainType *models.TrainType) error {
	if trainType.ID == uuid.Nil {
		trainType.ID = uuid.New()
	}

	query := `
		INSERT INTO train_types (id, name, description)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.Exec(query, trainType.ID, trainType.Name, trainType.Description)
	if err != nil {
		if isUniqueViolation(err, constraintTypeName) {
			return &models.DuplicateNameError{Entity: "train type", Name: trainType.Name}
		}
		return fmt.Errorf("failed to create train type: %w", err)
	}

	return nil
}

// GetByID retrieves a train type by ID
func (r *TrainTypeRepository) GetByID(id uuid.UUID) (*models.TrainType, error) {
	trainType := &models.TrainType{}
	query := `SELECT id, name, description FROM train_types WHERE id = $1`

	err := r.db.Get(trainType, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train type: %w", err)
	}

	return trainType, nil
}

// GetAll retrieves all train types ordered by name
func (r *TrainTypeRepository) GetAll() ([]models.TrainType, error) {
	trainTypes := []models.TrainType{}
	query := `SELECT id, name, description FROM train_types ORDER BY name`

	if err := r.db.Select(&trainTypes, query); err != nil {
		return nil, fmt.Errorf("failed to list train types: %w", err)
	}

	return trainTypes, nil
}
