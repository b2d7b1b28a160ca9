package api

import (
	"context"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
	"github.com/anuragkelkar1/onesignal-app/internal/entities"
)

// ReservationService is what the handlers need from the service layer.
type ReservationService interface {
	CreateReservation(ctx context.Context, req entities.CreateReservationRequest) (*db.Reservation, error)
	ConfirmReservation(ctx context.Context, id int) (*db.Reservation, error)
	ListPending() ([]db.Reservation, error)
	ListByPhone(phone string) ([]db.Reservation, error)
}

type CreateReservationResponse struct {
	Reservation db.Reservation `json:"reservation"`
	Message     string         `json:"message"`
}

type ConfirmReservationResponse struct {
	Reservation db.Reservation `json:"reservation"`
	Message     string         `json:"message"`
}
