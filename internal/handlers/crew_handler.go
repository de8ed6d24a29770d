package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// CrewHandler handles crew operations
type CrewHandler struct {
	crewRepo *database.CrewRepository
	logger   *logrus.Logger
}

// NewCrewHandler creates a new crew handler
func NewCrewHandler(crewRepo *database.CrewRepository, logger *logrus.Logger) *CrewHandler {
	return &CrewHandler{
		crewRepo: crewRepo,
		logger:   logger,
	}
}

// ListCrews returns all crew members with derived full names
// GET /api/v1/crews
func (h *CrewHandler) ListCrews(c *gin.Context) {
	crews, err := h.crewRepo.GetAll()
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	items := make([]models.CrewListItem, 0, len(crews))
	for i := range crews {
		items = append(items, crews[i].ToListItem())
	}

	c.JSON(http.StatusOK, gin.H{
		"crews": items,
		"count": len(items),
	})
}

// CreateCrew creates a new crew member
// POST /api/v1/crews
func (h *CrewHandler) CreateCrew(c *gin.Context) {
	var req models.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	crew := &models.Crew{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	if err := h.crewRepo.Create(crew); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, crew)
}
