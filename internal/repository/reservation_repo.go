package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
)

// ErrNotPending is returned when a confirmation targets a reservation that
// does not exist or was already confirmed.
var ErrNotPending = errors.New("reservation not found or already confirmed")

const reservationColumns = "id, phone, message, reservation_time, party_size, admin_response, created_at"

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(conn *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: conn}
}

// CreateReservation inserts a pending reservation and fills in the
// store-assigned fields on res.
func (r *ReservationRepository) CreateReservation(res *db.Reservation) error {
	query := `
		INSERT INTO reservations (phone, message, reservation_time, party_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, admin_response, created_at`
	err := r.DB.QueryRow(query,
		res.Phone,
		res.Message,
		res.ReservationTime,
		res.PartySize,
	).Scan(&res.ID, &res.AdminResponse, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

// ListPending returns unconfirmed reservations, newest first.
func (r *ReservationRepository) ListPending() ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE admin_response = FALSE
		ORDER BY created_at DESC`
	return r.queryReservations(query)
}

// ListByPhone returns every reservation made with the given phone number,
// newest first, regardless of confirmation state.
func (r *ReservationRepository) ListByPhone(phone string) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE phone = $1
		ORDER BY created_at DESC`
	return r.queryReservations(query, phone)
}

// ConfirmReservation flips a pending reservation to confirmed and returns
// the updated record. The guard on admin_response makes the transition
// one-way: a second confirmation of the same id yields ErrNotPending.
func (r *ReservationRepository) ConfirmReservation(id int) (*db.Reservation, error) {
	query := `
		UPDATE reservations
		SET admin_response = TRUE
		WHERE id = $1 AND admin_response = FALSE
		RETURNING ` + reservationColumns
	var res db.Reservation
	err := r.DB.QueryRow(query, id).Scan(
		&res.ID, &res.Phone, &res.Message, &res.ReservationTime,
		&res.PartySize, &res.AdminResponse, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("error confirming reservation %d: %w", id, err)
	}
	return &res, nil
}

func (r *ReservationRepository) queryReservations(query string, args ...interface{}) ([]db.Reservation, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		err := rows.Scan(
			&res.ID, &res.Phone, &res.Message, &res.ReservationTime,
			&res.PartySize, &res.AdminResponse, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return reservations, nil
}
