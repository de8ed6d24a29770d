package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	tripRepo := database.NewTripRepository(sqlxDB)
	orderRepo := database.NewOrderRepository(sqlxDB)
	validator := NewSlotValidator(tripRepo, orderRepo)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewBookingService(orderRepo, validator, nil, logger)
	return svc, mock, func() { db.Close() }
}

func expectTripTrain(mock sqlmock.Sqlmock, tripID uuid.UUID, cargoNum, seatsInCargo int) {
	mock.ExpectQuery(`SELECT tr.id AS trip_id`).
		WithArgs(tripID).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "train_id", "cargo_num", "seats_in_cargo"}).
			AddRow(tripID, uuid.New(), cargoNum, seatsInCargo))
}

func expectSlotFree(mock sqlmock.Sqlmock, tripID uuid.UUID, cargo, seat int) {
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(tripID, cargo, seat).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
}

func TestCreateOrder(t *testing.T) {
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, mock, done := newMockBookingService(t)
		defer done()

		requests := []models.TicketRequest{
			{TripID: tripID, Cargo: 1, Seat: 1},
			{TripID: tripID, Cargo: 1, Seat: 2},
		}

		for _, req := range requests {
			expectTripTrain(mock, tripID, 5, 40)
			expectSlotFree(mock, tripID, req.Cargo, req.Seat)
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(sqlmock.AnyArg(), userID).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectExec(`INSERT INTO tickets`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), tripID, 1, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO tickets`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), tripID, 1, 2).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order, tickets, err := svc.CreateOrder(context.Background(), userID, requests)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, userID, order.UserID)
		require.Len(t, tickets, 2)
		assert.Equal(t, 1, tickets[0].Seat)
		assert.Equal(t, 2, tickets[1].Seat)
		assert.Equal(t, order.ID, tickets[0].OrderID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Order", func(t *testing.T) {
		svc, mock, done := newMockBookingService(t)
		defer done()

		order, tickets, err := svc.CreateOrder(context.Background(), userID, nil)
		assert.ErrorIs(t, err, models.ErrEmptyOrder)
		assert.Nil(t, order)
		assert.Nil(t, tickets)

		// Nothing may touch the store.
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Out Of Range Slot Aborts Before Transaction", func(t *testing.T) {
		svc, mock, done := newMockBookingService(t)
		defer done()

		// Layout is 5x5; cargo 6 and seat 6 are both illegal.
		expectTripTrain(mock, tripID, 5, 5)

		requests := []models.TicketRequest{{TripID: tripID, Cargo: 6, Seat: 6}}
		order, tickets, err := svc.CreateOrder(context.Background(), userID, requests)

		var rangeErr *models.OutOfRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, "cargo", rangeErr.Field)
		assert.Nil(t, order)
		assert.Nil(t, tickets)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("One Bad Ticket Rejects The Whole Order", func(t *testing.T) {
		svc, mock, done := newMockBookingService(t)
		defer done()

		// First request is fine, second one is taken. No transaction
		// may start.
		expectTripTrain(mock, tripID, 5, 40)
		expectSlotFree(mock, tripID, 1, 1)
		expectTripTrain(mock, tripID, 5, 40)
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, 1, 2).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		requests := []models.TicketRequest{
			{TripID: tripID, Cargo: 1, Seat: 1},
			{TripID: tripID, Cargo: 1, Seat: 2},
		}
		order, tickets, err := svc.CreateOrder(context.Background(), userID, requests)

		var dupErr *models.DuplicateSlotError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, 2, dupErr.Seat)
		assert.Nil(t, order)
		assert.Nil(t, tickets)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Concurrent Booking Loses At Write Time", func(t *testing.T) {
		svc, mock, done := newMockBookingService(t)
		defer done()

		// The pre-check sees the slot as free, then another order
		// commits it first. The unique index turns the insert into a
		// conflict and the whole transaction rolls back.
		expectTripTrain(mock, tripID, 5, 40)
		expectSlotFree(mock, tripID, 2, 3)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(sqlmock.AnyArg(), userID).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectExec(`INSERT INTO tickets`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), tripID, 2, 3).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "tickets_trip_id_cargo_seat_key"})
		mock.ExpectRollback()

		requests := []models.TicketRequest{{TripID: tripID, Cargo: 2, Seat: 3}}
		order, tickets, err := svc.CreateOrder(context.Background(), userID, requests)

		var dupErr *models.DuplicateSlotError
		require.ErrorAs(t, err, &dupErr)
		assert.Equal(t, 2, dupErr.Cargo)
		assert.Equal(t, 3, dupErr.Seat)
		assert.Nil(t, order)
		assert.Nil(t, tickets)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
