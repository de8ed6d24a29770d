package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/middleware"
	"github.com/railstation/train-station-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a mock database for testing
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupOrderHandler(db *sqlx.DB) *OrderHandler {
	tripRepo := database.NewTripRepository(db)
	orderRepo := database.NewOrderRepository(db)
	validator := services.NewSlotValidator(tripRepo, orderRepo)
	bookingService := services.NewBookingService(orderRepo, validator, nil, testLogger())
	return NewOrderHandler(bookingService, testLogger())
}

// setupAuthenticatedContext creates a Gin context with an
// authenticated user, simulating AuthMiddleware.
func setupAuthenticatedContext(userID uuid.UUID) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID: userID,
		Email:  "rider@example.com",
	})

	return c, w
}

func TestCreateOrderHandler(t *testing.T) {
	userID := uuid.New()
	tripID := uuid.New()

	orderBody := func(tickets ...map[string]interface{}) *bytes.Reader {
		body, _ := json.Marshal(gin.H{"tickets": tickets})
		return bytes.NewReader(body)
	}

	t.Run("Success", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "train_id", "cargo_num", "seats_in_cargo"}).
				AddRow(tripID, uuid.New(), 5, 40))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, 2, 10).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs(sqlmock.AnyArg(), userID).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectExec(`INSERT INTO tickets`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), tripID, 2, 10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			orderBody(map[string]interface{}{"trip": tripID, "cargo": 2, "seat": 10}))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateOrder(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"tickets"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Order", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders", orderBody())
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateOrder(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "EMPTY_ORDER")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Taken Slot Conflict", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "train_id", "cargo_num", "seats_in_cargo"}).
				AddRow(tripID, uuid.New(), 5, 40))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, 1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			orderBody(map[string]interface{}{"trip": tripID, "cargo": 1, "seat": 1}))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateOrder(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_SLOT")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Out Of Range Slot", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		mock.ExpectQuery(`SELECT tr.id AS trip_id`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id", "train_id", "cargo_num", "seats_in_cargo"}).
				AddRow(tripID, uuid.New(), 5, 5))

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			orderBody(map[string]interface{}{"trip": tripID, "cargo": 6, "seat": 6}))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateOrder(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "OUT_OF_RANGE")
		assert.Contains(t, w.Body.String(), `"field":"cargo"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No User Context", func(t *testing.T) {
		db, _ := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			orderBody(map[string]interface{}{"trip": tripID, "cargo": 1, "seat": 1}))

		handler.CreateOrder(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	userID := uuid.New()

	listColumns := []string{
		"order_id", "order_created_at", "ticket_id", "trip_id",
		"cargo", "seat", "source_name", "destination_name", "departure_time",
	}

	t.Run("Default Descending", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		now := time.Now()
		mock.ExpectQuery(`FROM orders o`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(listColumns).
				AddRow(uuid.New(), now, uuid.New(), uuid.New(), 1, 1, "Warszawa", "Krakow", now.Add(time.Hour)))

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)

		handler.ListOrders(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"count":1`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ascending", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		mock.ExpectQuery(`ORDER BY o.created_at ASC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(listColumns))

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders?order=asc", nil)

		handler.ListOrders(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Order Value", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders?order=sideways", nil)

		handler.ListOrders(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Source Filter", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders?source=not-a-uuid", nil)

		handler.ListOrders(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		db, mock := setupTestDB(t)
		defer db.Close()
		handler := setupOrderHandler(db)

		mock.ExpectQuery(`FROM orders o`).
			WithArgs(userID).
			WillReturnError(fmt.Errorf("database error"))

		c, w := setupAuthenticatedContext(userID)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)

		handler.ListOrders(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
