package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/database"
	"github.com/railstation/train-station-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// BookingService runs the order transaction: an order and its
// tickets are created together or not at all.
type BookingService struct {
	orderRepo *database.OrderRepository
	validator *SlotValidator
	publisher *OrderEventPublisher
	logger    *logrus.Logger
}

// NewBookingService creates a new booking service. publisher may be
// nil when event publishing is not configured.
func NewBookingService(
	orderRepo *database.OrderRepository,
	validator *SlotValidator,
	publisher *OrderEventPublisher,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		orderRepo: orderRepo,
		validator: validator,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateOrder validates every requested slot and persists the order
// with its tickets in request order. Any validation failure aborts
// the whole operation before or during the transaction; nothing is
// persisted on error. A duplicate slot detected by the store at
// write time comes back as models.DuplicateSlotError, which closes
// the race two concurrent checkouts of the same slot would open.
func (s *BookingService) CreateOrder(ctx context.Context, userID uuid.UUID, requests []models.TicketRequest) (*models.Order, []models.Ticket, error) {
	if len(requests) == 0 {
		return nil, nil, models.ErrEmptyOrder
	}

	for _, req := range requests {
		if err := s.validator.Validate(req.TripID, req.Cargo, req.Seat); err != nil {
			return nil, nil, err
		}
	}

	order := &models.Order{UserID: userID}
	tickets, err := s.orderRepo.CreateWithTickets(order, requests)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"tickets":  len(tickets),
	}).Info("Order created")

	if s.publisher != nil {
		event := OrderConfirmedEvent{
			OrderID:     order.ID,
			UserID:      userID,
			TicketCount: len(tickets),
			CreatedAt:   order.CreatedAt,
		}
		// Best effort: the order is already committed, a broker
		// outage must not fail the request.
		if err := s.publisher.PublishOrderConfirmed(ctx, event); err != nil {
			s.logger.WithError(err).Warn("Failed to publish order confirmed event")
		}
	}

	return order, tickets, nil
}

// ListOrders returns the user's orders with their tickets
func (s *BookingService) ListOrders(userID uuid.UUID, filter models.OrderFilter) ([]models.OrderWithTickets, error) {
	return s.orderRepo.ListByUser(userID, filter)
}
