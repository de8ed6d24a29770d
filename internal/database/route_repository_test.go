package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRouteRepo(t *testing.T) (*RouteRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRouteRepository(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestRouteCreate(t *testing.T) {
	sourceID := uuid.New()
	destinationID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo, mock, done := newMockRouteRepo(t)
		defer done()

		mock.ExpectExec(`INSERT INTO routes`).
			WithArgs(sqlmock.AnyArg(), sourceID, destinationID, 297).
			WillReturnResult(sqlmock.NewResult(0, 1))

		route := &models.Route{SourceID: sourceID, DestinationID: destinationID, Distance: 297}
		err := repo.Create(route)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, route.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Same Source And Destination", func(t *testing.T) {
		repo, mock, done := newMockRouteRepo(t)
		defer done()

		route := &models.Route{SourceID: sourceID, DestinationID: sourceID, Distance: 0}
		err := repo.Create(route)
		assert.ErrorIs(t, err, models.ErrRouteSameStation)

		// Rejected before the store is touched.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Pair", func(t *testing.T) {
		repo, mock, done := newMockRouteRepo(t)
		defer done()

		mock.ExpectExec(`INSERT INTO routes`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "routes_source_id_destination_id_key"})

		route := &models.Route{SourceID: sourceID, DestinationID: destinationID, Distance: 297}
		err := repo.Create(route)

		var dupErr *models.DuplicateNameError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, "route", dupErr.Entity)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Check Constraint Conflict", func(t *testing.T) {
		repo, mock, done := newMockRouteRepo(t)
		defer done()

		// The schema backstops the same-station rule; a conflict
		// raised there maps to the same domain error.
		mock.ExpectExec(`INSERT INTO routes`).
			WillReturnError(&pq.Error{Code: "23514", Constraint: "routes_source_destination_differ"})

		route := &models.Route{SourceID: sourceID, DestinationID: destinationID, Distance: 10}
		err := repo.Create(route)
		assert.ErrorIs(t, err, models.ErrRouteSameStation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRouteGetAll(t *testing.T) {
	repo, mock, done := newMockRouteRepo(t)
	defer done()

	mock.ExpectQuery(`FROM routes r`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "source_id", "source_name", "destination_id", "destination_name", "distance",
		}).AddRow(uuid.New(), uuid.New(), "Warszawa Centralna", uuid.New(), "Krakow Glowny", 297))

	routes, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "Warszawa Centralna", routes[0].SourceName)
	assert.Equal(t, 297, routes[0].Distance)

	assert.NoError(t, mock.ExpectationsWereMet())
}
