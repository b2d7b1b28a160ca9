package db

import "time"

// Reservation is the single record kept by the store. Every field except
// AdminResponse is immutable after insertion; AdminResponse moves from
// false (pending) to true (confirmed) exactly once and never reverts.
// JSON tags match the column names so records decode directly from the
// NOTIFY trigger payload.
type Reservation struct {
	ID              int       `json:"id"`
	Phone           string    `json:"phone"`
	Message         string    `json:"message"`
	ReservationTime time.Time `json:"reservation_time"`
	PartySize       int       `json:"party_size"`
	AdminResponse   bool      `json:"admin_response"`
	CreatedAt       time.Time `json:"created_at"`
}
