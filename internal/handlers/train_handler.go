package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/config"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// TrainHandler handles train and train type operations
type TrainHandler struct {
	trainRepo     *database.TrainRepository
	trainTypeRepo *database.TrainTypeRepository
	uploadCfg     config.UploadConfig
	logger        *logrus.Logger
}

// NewTrainHandler creates a new train handler
func NewTrainHandler(
	trainRepo *database.TrainRepository,
	trainTypeRepo *database.TrainTypeRepository,
	uploadCfg config.UploadConfig,
	logger *logrus.Logger,
) *TrainHandler {
	return &TrainHandler{
		trainRepo:     trainRepo,
		trainTypeRepo: trainTypeRepo,
		uploadCfg:     uploadCfg,
		logger:        logger,
	}
}

// ListTrainTypes returns all train types
// GET /api/v1/train-types
func (h *TrainHandler) ListTrainTypes(c *gin.Context) {
	trainTypes, err := h.trainTypeRepo.GetAll()
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"train_types": trainTypes,
		"count":       len(trainTypes),
	})
}

// CreateTrainType creates a new train type
// POST /api/v1/train-types
func (h *TrainHandler) CreateTrainType(c *gin.Context) {
	var req models.CreateTrainTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	trainType := &models.TrainType{Name: req.Name}
	if req.Description != nil {
		trainType.Description = models.NullString{NullString: sql.NullString{String: *req.Description, Valid: true}}
	}

	if err := h.trainTypeRepo.Create(trainType); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, trainType)
}

// ListTrains returns all trains with capacity and type names
// GET /api/v1/trains
func (h *TrainHandler) ListTrains(c *gin.Context) {
	trains, err := h.trainRepo.GetAll()
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trains": trains,
		"count":  len(trains),
	})
}

// GetTrainByID returns a single train
// GET /api/v1/trains/:id
func (h *TrainHandler) GetTrainByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid train id",
			"code":    "INVALID_ID",
		})
		return
	}

	train, err := h.trainRepo.GetByID(id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"train":    train,
		"capacity": train.Capacity(),
	})
}

// CreateTrain creates a new train
// POST /api/v1/trains
func (h *TrainHandler) CreateTrain(c *gin.Context) {
	var req models.CreateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if _, err := h.trainTypeRepo.GetByID(req.TrainTypeID); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	train := &models.Train{
		Name:         req.Name,
		CargoNum:     req.CargoNum,
		SeatsInCargo: req.SeatsInCargo,
		TrainTypeID:  req.TrainTypeID,
	}

	if err := h.trainRepo.Create(train); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"train":    train,
		"capacity": train.Capacity(),
	})
}

// UploadTrainImage stores an image for a train on disk and records
// its path.
// POST /api/v1/trains/:id/image
func (h *TrainHandler) UploadTrainImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid train id",
			"code":    "INVALID_ID",
		})
		return
	}

	if _, err := h.trainRepo.GetByID(id); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Image file is required",
			"code":    "MISSING_IMAGE",
		})
		return
	}

	if file.Size > h.uploadCfg.MaxSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": fmt.Sprintf("Image exceeds maximum size of %d bytes", h.uploadCfg.MaxSizeBytes),
			"code":    "IMAGE_TOO_LARGE",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Unsupported image format",
			"code":    "UNSUPPORTED_FORMAT",
		})
		return
	}

	if err := os.MkdirAll(h.uploadCfg.Dir, 0o755); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	path := filepath.Join(h.uploadCfg.Dir, fmt.Sprintf("train-%s%s", id, ext))
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	if err := h.trainRepo.SetImagePath(id, path); err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded",
		"image":   path,
	})
}
