package models

import (
	"github.com/google/uuid"
)

// Crew represents a crew member assigned to trips.
type Crew struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
}

// FullName returns the display name of the crew member.
func (c *Crew) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CrewListItem is the list projection of a crew member.
type CrewListItem struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// ToListItem builds the list projection from the entity.
func (c *Crew) ToListItem() CrewListItem {
	return CrewListItem{ID: c.ID, FullName: c.FullName()}
}

// CreateCrewRequest is the payload for POST /crews
type CreateCrewRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}
