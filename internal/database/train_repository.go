package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// TrainRepository handles database operations for the trains table
type TrainRepository struct {
	db DB
}

// NewTrainRepository creates a new TrainRepository
func NewTrainRepository(db DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// Create inserts a new train
func (r *TrainRepository) Create(train *models.Train) error {
	if train.ID == uuid.Nil {
		train.ID = uuid.New()
	}

	query := `
		INSERT INTO trains (id, name, cargo_num, seats_in_cargo, train_type_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, train.ID, train.Name, train.CargoNum, train.SeatsInCargo, train.TrainTypeID)
	if err != nil {
		if isUniqueViolation(err, constraintTrainName) {
			return &models.DuplicateNameError{Entity: "train", Name: train.Name}
		}
		return fmt.Errorf("failed to create train: %w", err)
	}

	return nil
}

// GetByID retrieves a train by ID
func (r *TrainRepository) GetByID(id uuid.UUID) (*models.Train, error) {
	train := &models.Train{}
	query := `
		SELECT id, name, cargo_num, seats_in_cargo, train_type_id, image_path
		FROM trains
		WHERE id = $1
	`

	err := r.db.Get(train, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get train: %w", err)
	}

	return train, nil
}

// GetAll retrieves all trains with type names and derived capacity
func (r *TrainRepository) GetAll() ([]models.TrainListItem, error) {
	trains := []models.TrainListItem{}
	query := `
		SELECT t.id, t.name, t.cargo_num, t.seats_in_cargo,
		       t.cargo_num * t.seats_in_cargo AS capacity,
		       tt.name AS train_type_name, t.image_path
		FROM trains t
		JOIN train_types tt ON tt.id = t.train_type_id
		ORDER BY t.name
	`

	if err := r.db.Select(&trains, query); err != nil {
		return nil, fmt.Errorf("failed to list trains: %w", err)
	}

	return trains, nil
}

// SetImagePath stores the uploaded image location for a train
func (r *TrainRepository) SetImagePath(id uuid.UUID, path string) error {
	query := `UPDATE trains SET image_path = $2 WHERE id = $1`

	result, err := r.db.Exec(query, id, path)
	if err != nil {
		return fmt.Errorf("failed to update train image: %w", err)
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
