package entities

import "time"

type CreateReservationRequest struct {
	Phone           string    `json:"phone"`
	Message         string    `json:"message"`
	ReservationTime time.Time `json:"reservation_time"`
	PartySize       int       `json:"party_size"`
}
