package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railstation/train-station-backend/internal/models"
)

// OrderRepository handles database operations for orders and
// tickets. Creation is all-or-nothing: the order row and every
// ticket row commit together or not at all.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SlotTaken reports whether a (cargo, seat) pair is already booked
// on the trip. This is the fail-fast pre-check; the unique index on
// tickets remains the authoritative guard at commit time.
func (r *OrderRepository) SlotTaken(tripID uuid.UUID, cargo, seat int) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM tickets WHERE trip_id = $1 AND cargo = $2 AND seat = $3)`

	if err := r.db.Get(&taken, query, tripID, cargo, seat); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}

	return taken, nil
}

// CreateWithTickets persists an order together with one ticket per
// request, in request order, inside a single transaction. A unique
// conflict on the ticket slot index is remapped to
// models.DuplicateSlotError and rolls back the whole order. The
// caller must have rejected empty requests already.
func (r *OrderRepository) CreateWithTickets(order *models.Order, requests []models.TicketRequest) ([]models.Ticket, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	orderQuery := `
		INSERT INTO orders (id, user_id)
		VALUES ($1, $2)
		RETURNING created_at
	`

	if err := tx.QueryRowx(orderQuery, order.ID, order.UserID).Scan(&order.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	ticketQuery := `
		INSERT INTO tickets (id, order_id, trip_id, cargo, seat)
		VALUES ($1, $2, $3, $4, $5)
	`

	tickets := make([]models.Ticket, 0, len(requests))
	for _, req := range requests {
		ticket := models.Ticket{
			ID:      uuid.New(),
			OrderID: order.ID,
			TripID:  req.TripID,
			Cargo:   req.Cargo,
			Seat:    req.Seat,
		}

		if _, err := tx.Exec(ticketQuery, ticket.ID, ticket.OrderID, ticket.TripID, ticket.Cargo, ticket.Seat); err != nil {
			if isUniqueViolation(err, constraintTicketSlot) {
				return nil, &models.DuplicateSlotError{TripID: req.TripID, Cargo: req.Cargo, Seat: req.Seat}
			}
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}

		tickets = append(tickets, ticket)
	}

	if err := tx.Commit(); err != nil {
		// Deferred constraints surface here; treat a slot conflict
		// at commit exactly like one caught on insert.
		if isUniqueViolation(err, constraintTicketSlot) {
			return nil, &models.DuplicateSlotError{}
		}
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tickets, nil
}

// orderTicketRow is the flat join row used to assemble order listings
type orderTicketRow struct {
	OrderID         uuid.UUID `db:"order_id"`
	OrderCreatedAt  time.Time `db:"order_created_at"`
	TicketID        uuid.UUID `db:"ticket_id"`
	TripID          uuid.UUID `db:"trip_id"`
	Cargo           int       `db:"cargo"`
	Seat            int       `db:"seat"`
	SourceName      string    `db:"source_name"`
	DestinationName string    `db:"destination_name"`
	DepartureTime   time.Time `db:"departure_time"`
}

// ListByUser retrieves the user's orders with their tickets. The
// default ordering is newest first; filter.Ascending flips it.
// filter.SourceID restricts to orders holding at least one ticket
// whose trip departs from that station.
func (r *OrderRepository) ListByUser(userID uuid.UUID, filter models.OrderFilter) ([]models.OrderWithTickets, error) {
	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}

	query := `
		SELECT o.id AS order_id, o.created_at AS order_created_at,
		       tk.id AS ticket_id, tk.trip_id, tk.cargo, tk.seat,
		       src.name AS source_name, dst.name AS destination_name,
		       tr.departure_time
		FROM orders o
		JOIN tickets tk ON tk.order_id = o.id
		JOIN trips tr ON tr.id = tk.trip_id
		JOIN routes rt ON rt.id = tr.route_id
		JOIN stations src ON src.id = rt.source_id
		JOIN stations dst ON dst.id = rt.destination_id
		WHERE o.user_id = $1
	`
	args := []interface{}{userID}

	if filter.SourceID != nil {
		query += ` AND o.id IN (
			SELECT t2.order_id FROM tickets t2
			JOIN trips tr2 ON tr2.id = t2.trip_id
			JOIN routes rt2 ON rt2.id = tr2.route_id
			WHERE rt2.source_id = $2
		)`
		args = append(args, *filter.SourceID)
	}

	query += fmt.Sprintf(" ORDER BY o.created_at %s, o.id, tk.cargo, tk.seat", direction)

	var rows []orderTicketRow
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := []models.OrderWithTickets{}
	index := map[uuid.UUID]int{}
	for _, row := range rows {
		i, ok := index[row.OrderID]
		if !ok {
			orders = append(orders, models.OrderWithTickets{
				ID:        row.OrderID,
				CreatedAt: row.OrderCreatedAt,
				Tickets:   []models.TicketListItem{},
			})
			i = len(orders) - 1
			index[row.OrderID] = i
		}
		orders[i].Tickets = append(orders[i].Tickets, models.TicketListItem{
			ID:              row.TicketID,
			TripID:          row.TripID,
			Cargo:           row.Cargo,
			Seat:            row.Seat,
			SourceName:      row.SourceName,
			DestinationName: row.DestinationName,
			DepartureTime:   row.DepartureTime,
		})
	}

	return orders, nil
}
