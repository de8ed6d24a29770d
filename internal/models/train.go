package models

import (
	"github.com/google/uuid"
)

// TrainType represents a category of train (express, freight, ...)
type TrainType struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description NullString `json:"description,omitempty" db:"description"`
}

// Train represents a physical train. A train is divided into
// cargo_num cargos with seats_in_cargo seats each.
type Train struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	CargoNum     int        `json:"cargo_num" db:"cargo_num"`
	SeatsInCargo int        `json:"seats_in_cargo" db:"seats_in_cargo"`
	TrainTypeID  uuid.UUID  `json:"train_type_id" db:"train_type_id"`
	ImagePath    NullString `json:"image,omitempty" db:"image_path"`
}

// Capacity returns the total number of bookable slots on the train.
func (t *Train) Capacity() int {
	return t.CargoNum * t.SeatsInCargo
}

// TrainListItem is the list projection of a train with its type
// name resolved and the derived capacity included.
type TrainListItem struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	CargoNum      int        `json:"cargo_num" db:"cargo_num"`
	SeatsInCargo  int        `json:"seats_in_cargo" db:"seats_in_cargo"`
	Capacity      int        `json:"capacity" db:"capacity"`
	TrainTypeName string     `json:"train_type" db:"train_type_name"`
	ImagePath     NullString `json:"image,omitempty" db:"image_path"`
}

// CreateTrainTypeRequest is the payload for POST /train-types
type CreateTrainTypeRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateTrainRequest is the payload for POST /trains
type CreateTrainRequest struct {
	Name         string    `json:"name" binding:"required"`
	CargoNum     int       `json:"cargo_num" binding:"required,gt=0"`
	SeatsInCargo int       `json:"seats_in_cargo" binding:"required,gt=0"`
	TrainTypeID  uuid.UUID `json:"train_type_id" binding:"required"`
}
