package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// respondDomainError translates domain errors into client-facing
// responses. Anything unrecognized is a server fault: it is logged
// and a generic message is returned so raw storage errors never
// reach the client.
func respondDomainError(c *gin.Context, logger *logrus.Logger, err error) {
	var outOfRange *models.OutOfRangeError
	if errors.As(err, &outOfRange) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "out_of_range",
			"message": outOfRange.Error(),
			"code":    "OUT_OF_RANGE",
			"field":   outOfRange.Field,
			"min":     outOfRange.Min,
			"max":     outOfRange.Max,
		})
		return
	}

	var duplicateSlot *models.DuplicateSlotError
	if errors.As(err, &duplicateSlot) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate_slot",
			"message": duplicateSlot.Error(),
			"code":    "DUPLICATE_SLOT",
		})
		return
	}

	var duplicateName *models.DuplicateNameError
	if errors.As(err, &duplicateName) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "duplicate",
			"message": duplicateName.Error(),
			"code":    "DUPLICATE",
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "empty_order",
			"message": err.Error(),
			"code":    "EMPTY_ORDER",
		})
	case errors.Is(err, models.ErrRouteSameStation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_route",
			"message": err.Error(),
			"code":    "ROUTE_SAME_STATION",
		})
	case errors.Is(err, models.ErrArrivalBeforeDeparture):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_trip",
			"message": err.Error(),
			"code":    "ARRIVAL_BEFORE_DEPARTURE",
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
			"code":    "NOT_FOUND",
		})
	default:
		logger.WithError(err).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal",
			"message": "Internal server error",
			"code":    "INTERNAL",
		})
	}
}
