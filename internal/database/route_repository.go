package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create inserts a new route. Source and destination must differ and
// the pair must be unique; both invariants are also backed by
// schema constraints, so conflicts raised there are remapped too.
func (r *RouteRepository) Create(route *models.Route) error {
	if route.SourceID == route.DestinationID {
		return models.ErrRouteSameStation
	}

	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}

	query := `
		INSERT INTO routes (id, source_id, destination_id, distance)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, route.ID, route.SourceID, route.DestinationID, route.Distance)
	if err != nil {
		if isUniqueViolation(err, constraintRoutePair) {
			return &models.DuplicateNameError{
				Entity: "route",
				Name:   fmt.Sprintf("%s -> %s", route.SourceID, route.DestinationID),
			}
		}
		if isCheckViolation(err, constraintRouteDiff) {
			return models.ErrRouteSameStation
		}
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(id uuid.UUID) (*models.Route, error) {
	route := &models.Route{}
	query := `SELECT id, source_id, destination_id, distance FROM routes WHERE id = $1`

	err := r.db.Get(route, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}

	return route, nil
}

// GetAll retrieves all routes with station names resolved
func (r *RouteRepository) GetAll() ([]models.RouteListItem, error) {
	routes := []models.RouteListItem{}
	query := `
		SELECT r.id, r.source_id, src.name AS source_name,
		       r.destination_id, dst.name AS destination_name, r.distance
		FROM routes r
		JOIN stations src ON src.id = r.source_id
		JOIN stations dst ON dst.id = r.destination_id
		ORDER BY src.name, dst.name
	`

	if err := r.db.Select(&routes, query); err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	return routes, nil
}
