package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/railstation/train-station-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// StationHandler handles station operations
type StationHandler struct {
	stationRepo *database.StationRepository
	coords      *validator.CoordinateValidator
	logger      *logrus.Logger
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationRepo *database.StationRepository, coords *validator.CoordinateValidator, logger *logrus.Logger) *StationHandler {
	return &StationHandler{
		stationRepo: stationRepo,
		coords:      coords,
		logger:      logger,
	}
}

// ListStations returns all stations
// GET /api/v1/stations
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.stationRepo.GetAll()
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
		"count":    len(stations),
	})
}

// CreateStation creates a new station
// POST /api/v1/stations
func (h *StationHandler) CreateStation(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if err := h.coords.Validate(req.Latitude, req.Longitude); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_coordinates",
			"message": err.Error(),
			"code":    "INVALID_COORDINATES",
		})
		return
	}

	station := &models.Station{
		Name:      req.Name,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := h.stationRepo.Create(station); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, station)
}
