package service

import (
	"fmt"
	"log"
	"time"

	"github.com/anuragkelkar1/onesignal-app/internal/repository"
)

type JobService struct {
	Repo   *repository.JobRepository
	MaxAge time.Duration
}

func NewJobService(repo *repository.JobRepository, maxAge time.Duration) *JobService {
	return &JobService{Repo: repo, MaxAge: maxAge}
}

// PurgeStalePending deletes pending reservations older than MaxAge.
// Confirmed reservations are kept forever.
func (s *JobService) PurgeStalePending() error {
	before := time.Now().UTC().Add(-s.MaxAge)

	deleted, err := s.Repo.DeletePendingReservationsOlderThan(before)
	if err != nil {
		return fmt.Errorf("cron job: failed to purge stale pending reservations: %w", err)
	}

	if deleted > 0 {
		log.Printf("Cron Job: Purged %d stale pending reservations older than %s", deleted, before.Format(time.RFC3339))
	}
	return nil
}
