package services

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockValidator(t *testing.T) (*SlotValidator, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	validator := NewSlotValidator(
		database.NewTripRepository(sqlxDB),
		database.NewOrderRepository(sqlxDB),
	)
	return validator, mock, func() { db.Close() }
}

func TestValidateBounds(t *testing.T) {
	tt := &models.TripTrain{CargoNum: 5, SeatsInCargo: 5}

	tests := []struct {
		name  string
		cargo int
		seat  int
		field string // empty means valid
	}{
		{"First Slot", 1, 1, ""},
		{"Last Slot", 5, 5, ""},
		{"Cargo Too High", 6, 3, "cargo"},
		{"Cargo Zero", 0, 3, "cargo"},
		{"Cargo Negative", -1, 3, "cargo"},
		{"Seat Too High", 3, 6, "seat"},
		{"Seat Zero", 3, 0, "seat"},
		{"Both Out Of Range Reports Cargo First", 9, 9, "cargo"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBounds(tt, tc.cargo, tc.seat)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}

			var rangeErr *models.OutOfRangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, tc.field, rangeErr.Field)
			assert.Equal(t, 1, rangeErr.Min)
		})
	}
}

func TestValidate(t *testing.T) {
	tripID := uuid.New()

	tripTrainRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"trip_id", "train_id", "cargo_num", "seats_in_cargo"}).
			AddRow(tripID, uuid.New(), 3, 10)
	}

	t.Run("Free Slot", func(t *testing.T) {
		validator, mock, done := newMockValidator(t)
		defer done()

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(tripTrainRows())
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, 2, 7).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := validator.Validate(tripID, 2, 7)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Out Of Range", func(t *testing.T) {
		validator, mock, done := newMockValidator(t)
		defer done()

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(tripTrainRows())

		err := validator.Validate(tripID, 4, 1)

		var rangeErr *models.OutOfRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "cargo", rangeErr.Field)
		assert.Equal(t, 3, rangeErr.Max)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Slot Already Booked", func(t *testing.T) {
		validator, mock, done := newMockValidator(t)
		defer done()

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(tripTrainRows())
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, 1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := validator.Validate(tripID, 1, 1)

		var dupErr *models.DuplicateSlotError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, tripID, dupErr.TripID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Trip", func(t *testing.T) {
		validator, mock, done := newMockValidator(t)
		defer done()

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnError(sql.ErrNoRows)

		err := validator.Validate(tripID, 1, 1)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
