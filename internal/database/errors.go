package database

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint
// conflicts.
const uniqueViolation = "23505"

// checkViolation is the PostgreSQL SQLSTATE for CHECK constraint
// conflicts.
const checkViolation = "23514"

// Constraint names from the schema. Repositories use these to remap
// raw conflicts into domain errors instead of leaking storage
// details to callers.
const (
	constraintStationName = "stations_name_key"
	constraintRoutePair   = "routes_source_id_destination_id_key"
	constraintRouteDiff   = "routes_source_destination_differ"
	constraintTrainName   = "trains_name_key"
	constraintTypeName    = "train_types_name_key"
	constraintUserEmail   = "users_email_key"
	constraintTicketSlot  = "tickets_trip_id_cargo_seat_key"
)

// isUniqueViolation reports whether err is a unique conflict on the
// given constraint. An empty constraint matches any unique conflict.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isCheckViolation reports whether err is a CHECK conflict on the
// given constraint.
func isCheckViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != checkViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
