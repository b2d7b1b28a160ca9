package entities

import "github.com/anuragkelkar1/onesignal-app/internal/db"

type ReservationsList struct {
	Total        int              `json:"total"`
	Reservations []db.Reservation `json:"reservations"`
}
