package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/middleware"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/railstation/train-station-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles order operations
type OrderHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(bookingService *services.BookingService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateOrder books the requested seats in a single transaction. All
// tickets succeed together or the order is not created at all.
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
			"code":    "INVALID_REQUEST",
		})
		return
	}

	order, tickets, err := h.bookingService.CreateOrder(c.Request.Context(), userCtx.UserID, req.Tickets)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	ticketItems := make([]models.TicketListItem, 0, len(tickets))
	for _, t := range tickets {
		ticketItems = append(ticketItems, models.TicketListItem{
			TripID: t.TripID,
			Cargo:  t.Cargo,
			Seat:   t.Seat,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": gin.H{
			"id":         order.ID,
			"created_at": order.CreatedAt,
			"tickets":    ticketItems,
		},
	})
}

// ListOrders returns the caller's orders with their tickets, oldest
// or newest first depending on the order parameter.
// GET /api/v1/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Authentication required",
			"code":    "UNAUTHORIZED",
		})
		return
	}

	filter := models.OrderFilter{}

	if raw := c.Query("source"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "Invalid source station id",
				"code":    "INVALID_FILTER",
			})
			return
		}
		filter.SourceID = &id
	}

	switch c.DefaultQuery("order", "desc") {
	case "asc":
		filter.Ascending = true
	case "desc":
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Order must be asc or desc",
			"code":    "INVALID_FILTER",
		})
		return
	}

	orders, err := h.bookingService.ListOrders(userCtx.UserID, filter)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
