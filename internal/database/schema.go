package database

import "fmt"

// Migrate creates the schema if it does not exist. Constraint names
// are referenced by the error remapping in errors.go, so they are
// spelled out explicitly instead of being left to the defaults.
func Migrate(db DB) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT users_email_key UNIQUE (email)
		)`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token_hash VARCHAR(64) NOT NULL,
			device_type VARCHAR(20),
			user_agent TEXT,
			ip_address VARCHAR(45),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			revoked BOOLEAN NOT NULL DEFAULT FALSE,
			revoked_at TIMESTAMP WITH TIME ZONE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token_hash ON refresh_tokens(token_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,

		`CREATE TABLE IF NOT EXISTS stations (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT stations_name_key UNIQUE (name)
		)`,

		`CREATE TABLE IF NOT EXISTS routes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			source_id UUID NOT NULL REFERENCES stations(id),
			destination_id UUID NOT NULL REFERENCES stations(id),
			distance INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT routes_source_id_destination_id_key UNIQUE (source_id, destination_id),
			CONSTRAINT routes_source_destination_differ CHECK (source_id <> destination_id)
		)`,

		`CREATE TABLE IF NOT EXISTS train_types (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			description TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT train_types_name_key UNIQUE (name)
		)`,

		`CREATE TABLE IF NOT EXISTS trains (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			cargo_num INTEGER NOT NULL CHECK (cargo_num > 0),
			seats_in_cargo INTEGER NOT NULL CHECK (seats_in_cargo > 0),
			train_type_id UUID NOT NULL REFERENCES train_types(id),
			image_path TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			CONSTRAINT trains_name_key UNIQUE (name)
		)`,

		`CREATE TABLE IF NOT EXISTS crews (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS trips (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			route_id UUID NOT NULL REFERENCES routes(id),
			train_id UUID NOT NULL REFERENCES trains(id),
			departure_time TIMESTAMP WITH TIME ZONE NOT NULL,
			arrival_time TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_route_id ON trips(route_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_departure_time ON trips(departure_time)`,

		`CREATE TABLE IF NOT EXISTS trip_crew (
			trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			crew_id UUID NOT NULL REFERENCES crews(id) ON DELETE CASCADE,
			PRIMARY KEY (trip_id, crew_id)
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			trip_id UUID NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			cargo INTEGER NOT NULL,
			seat INTEGER NOT NULL,
			CONSTRAINT tickets_trip_id_cargo_seat_key UNIQUE (trip_id, cargo, seat)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_order_id ON tickets(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
