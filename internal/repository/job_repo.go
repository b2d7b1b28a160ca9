package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(conn *sql.DB) *JobRepository {
	return &JobRepository{DB: conn}
}

// DeletePendingReservationsOlderThan removes unconfirmed reservations created
// before the given time. Confirmed reservations are never deleted.
func (r *JobRepository) DeletePendingReservationsOlderThan(before time.Time) (int64, error) {
	query := `DELETE FROM reservations WHERE admin_response = FALSE AND created_at < $1`
	result, err := r.DB.Exec(query, before)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending reservations: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected, nil
}
