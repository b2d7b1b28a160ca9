package db

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id SERIAL PRIMARY KEY,
	phone TEXT NOT NULL,
	message TEXT NOT NULL,
	reservation_time TIMESTAMPTZ NOT NULL,
	party_size INT NOT NULL CHECK (party_size BETWEEN 1 AND 8),
	admin_response BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION notify_reservation_change() RETURNS trigger AS $fn$
BEGIN
	PERFORM pg_notify('reservations_changes', json_build_object(
		'action', TG_OP,
		'record', row_to_json(NEW)
	)::text);
	RETURN NEW;
END;
$fn$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS reservations_notify ON reservations;
CREATE TRIGGER reservations_notify
	AFTER INSERT OR UPDATE ON reservations
	FOR EACH ROW EXECUTE FUNCTION notify_reservation_change();
`

// Migrate creates the reservations table and the change-feed trigger so the
// server can run against a fresh database.
func Migrate(conn *sql.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
