package models

import (
	"github.com/google/uuid"
)

// Route represents a directed connection between two stations.
// The (source, destination) pair is unique and the two stations
// must differ.
type Route struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SourceID      uuid.UUID `json:"source_id" db:"source_id"`
	DestinationID uuid.UUID `json:"destination_id" db:"destination_id"`
	Distance      int       `json:"distance" db:"distance"`
}

// RouteListItem is the list projection of a route with station
// names resolved for display.
type RouteListItem struct {
	ID              uuid.UUID `json:"id" db:"id"`
	SourceID        uuid.UUID `json:"source_id" db:"source_id"`
	SourceName      string    `json:"source" db:"source_name"`
	DestinationID   uuid.UUID `json:"destination_id" db:"destination_id"`
	DestinationName string    `json:"destination" db:"destination_name"`
	Distance        int       `json:"distance" db:"distance"`
}

// CreateRouteRequest is the payload for POST /routes
type CreateRouteRequest struct {
	SourceID      uuid.UUID `json:"source_id" binding:"required"`
	DestinationID uuid.UUID `json:"destination_id" binding:"required"`
	Distance      int       `json:"distance" binding:"required,gt=0"`
}
