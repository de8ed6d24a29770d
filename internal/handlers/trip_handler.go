package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// TripHandler handles trip operations
type TripHandler struct {
	tripRepo  *database.TripRepository
	routeRepo *database.RouteRepository
	trainRepo *database.TrainRepository
	crewRepo  *database.CrewRepository
	logger    *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(
	tripRepo *database.TripRepository,
	routeRepo *database.RouteRepository,
	trainRepo *database.TrainRepository,
	crewRepo *database.CrewRepository,
	logger *logrus.Logger,
) *TripHandler {
	return &TripHandler{
		tripRepo:  tripRepo,
		routeRepo: routeRepo,
		trainRepo: trainRepo,
		crewRepo:  crewRepo,
		logger:    logger,
	}
}

// parseTripFilter extracts the optional list filters from the query
// string. Invalid values are rejected rather than ignored.
func parseTripFilter(c *gin.Context) (models.TripFilter, bool) {
	filter := models.TripFilter{}

	if raw := c.Query("source"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid source station id",
				"code":    "INVALID_FILTER",
			})
			return filter, false
		}
		filter.SourceID = &id
	}

	if raw := c.Query("destination"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid destination station id",
				"code":    "INVALID_FILTER",
			})
			return filter, false
		}
		filter.DestinationID = &id
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid date, expected YYYY-MM-DD",
				"code":    "INVALID_FILTER",
			})
			return filter, false
		}
		filter.Date = &date
	}

	return filter, true
}

// ListTrips returns trips matching the filters, each with its
// available-ticket count.
// GET /api/v1/trips
func (h *TripHandler) ListTrips(c *gin.Context) {
	filter, ok := parseTripFilter(c)
	if !ok {
		return
	}

	trips, err := h.tripRepo.List(filter)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": trips,
		"count": len(trips),
	})
}

// GetTripByID returns the trip detail with layout, occupied slots
// and crew.
// GET /api/v1/trips/:id
func (h *TripHandler) GetTripByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid trip id",
			"code":    "INVALID_ID",
		})
		return
	}

	item, err := h.tripRepo.GetListItem(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	tripTrain, err := h.tripRepo.GetTripTrain(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	takenSlots, err := h.tripRepo.GetTakenSlots(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	crews, err := h.crewRepo.GetByTripID(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	crewItems := make([]models.CrewListItem, 0, len(crews))
	for i := range crews {
		crewItems = append(crewItems, crews[i].ToListItem())
	}

	c.JSON(http.StatusOK, models.TripDetail{
		TripListItem: *item,
		CargoNum:     tripTrain.CargoNum,
		SeatsInCargo: tripTrain.SeatsInCargo,
		TakenSlots:   takenSlots,
		Crew:         crewItems,
	})
}

// CreateTrip creates a new trip
// POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if _, err := h.routeRepo.GetByID(req.RouteID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	if _, err := h.trainRepo.GetByID(req.TrainID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	trip := &models.Trip{
		RouteID:       req.RouteID,
		TrainID:       req.TrainID,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
	}

	if err := h.tripRepo.Create(trip, req.CrewIDs); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// UpdateTrip applies a partial update to a trip
// PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid trip id",
			"code":    "INVALID_ID",
		})
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	trip, err := h.tripRepo.GetByID(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	if req.RouteID != nil {
		if _, err := h.routeRepo.GetByID(*req.RouteID); err != nil {
			respondDomainError(c, h.logger, err)
			return
		}
		trip.RouteID = *req.RouteID
	}
	if req.TrainID != nil {
		if _, err := h.trainRepo.GetByID(*req.TrainID); err != nil {
			respondDomainError(c, h.logger, err)
			return
		}
		trip.TrainID = *req.TrainID
	}
	if req.DepartureTime != nil {
		trip.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		trip.ArrivalTime = *req.ArrivalTime
	}

	if err := h.tripRepo.Update(trip, req.CrewIDs); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// DeleteTrip removes a trip and its tickets
// DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid trip id",
			"code":    "INVALID_ID",
		})
		return
	}

	if err := h.tripRepo.Delete(id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}
