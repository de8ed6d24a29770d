package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// RouteHandler handles route operations
type RouteHandler struct {
	routeRepo   *database.RouteRepository
	stationRepo *database.StationRepository
	logger      *logrus.Logger
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeRepo *database.RouteRepository, stationRepo *database.StationRepository, logger *logrus.Logger) *RouteHandler {
	return &RouteHandler{
		routeRepo:   routeRepo,
		stationRepo: stationRepo,
		logger:      logger,
	}
}

// ListRoutes returns all routes with station names resolved
// GET /api/v1/routes
func (h *RouteHandler) ListRoutes(c *gin.Context) {
	routes, err := h.routeRepo.GetAll()
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"routes": routes,
		"count":  len(routes),
	})
}

// CreateRoute creates a new route between two existing stations
// POST /api/v1/routes
func (h *RouteHandler) CreateRoute(c *gin.Context) {
	var req models.CreateRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	// Both stations must exist before the insert so a missing one
	// surfaces as 404 rather than a foreign key failure.
	if _, err := h.stationRepo.GetByID(req.SourceID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}
	if _, err := h.stationRepo.GetByID(req.DestinationID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	route := &models.Route{
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		Distance:      req.Distance,
	}

	if err := h.routeRepo.Create(route); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, route)
}
