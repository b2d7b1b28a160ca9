package service

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
	"github.com/anuragkelkar1/onesignal-app/internal/entities"
	errs "github.com/anuragkelkar1/onesignal-app/internal/errors"
	"github.com/anuragkelkar1/onesignal-app/internal/metrics"
	"github.com/anuragkelkar1/onesignal-app/internal/utils"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

const confirmationMessage = "Your order has been confirmed!"

// ValidatePhone checks the fixed intake format: optional leading plus, then
// 10 to 15 digits. The returned message is empty on success.
func ValidatePhone(value string) (bool, string) {
	if !phonePattern.MatchString(value) {
		return false, "Enter a valid phone number (10-15 digits)"
	}
	return true, ""
}

// ReservationStore is the slice of the repository the service needs.
type ReservationStore interface {
	CreateReservation(res *db.Reservation) error
	ListPending() ([]db.Reservation, error)
	ListByPhone(phone string) ([]db.Reservation, error)
	ConfirmReservation(id int) (*db.Reservation, error)
}

type ReservationService struct {
	Repo       ReservationStore
	dispatcher Dispatcher
}

func NewReservationService(repo ReservationStore, dispatcher Dispatcher) *ReservationService {
	return &ReservationService{Repo: repo, dispatcher: dispatcher}
}

// CreateReservation validates the request and inserts a pending reservation.
// Staff are notified only after the insert committed; a dispatch failure is
// logged and does not undo the reservation.
func (s *ReservationService) CreateReservation(ctx context.Context, req entities.CreateReservationRequest) (*db.Reservation, error) {
	if ok, msg := ValidatePhone(req.Phone); !ok {
		return nil, errs.ErrBadRequest(msg)
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, errs.ErrBadRequest("Message is required")
	}
	if req.ReservationTime.IsZero() {
		return nil, errs.ErrBadRequest("Reservation time is required")
	}
	if !utils.ValidPartySize(req.PartySize) {
		return nil, errs.ErrBadRequest("Party size must be between 1 and 8")
	}

	reservation := &db.Reservation{
		Phone:           req.Phone,
		Message:         req.Message,
		ReservationTime: req.ReservationTime,
		PartySize:       req.PartySize,
	}
	if err := s.Repo.CreateReservation(reservation); err != nil {
		log.Printf("Error creating reservation in repository: %v", err)
		return nil, err
	}
	metrics.ReservationsSubmitted.Inc()

	s.dispatch(ctx, entities.DispatchRequest{
		Phone:           reservation.Phone,
		Message:         reservation.Message,
		ReservationTime: reservation.ReservationTime.UTC().Format(time.RFC3339),
		PartySize:       reservation.PartySize,
		NotifyStaff:     true,
	})
	return reservation, nil
}

// ConfirmReservation moves a pending reservation to confirmed and notifies
// the requester. The update commits before the dispatch; if the dispatch
// fails the confirmation stands and the failure is only logged.
func (s *ReservationService) ConfirmReservation(ctx context.Context, id int) (*db.Reservation, error) {
	reservation, err := s.Repo.ConfirmReservation(id)
	if err != nil {
		log.Printf("Failed to confirm reservation %d: %v", id, err)
		return nil, err
	}
	metrics.ReservationsConfirmed.Inc()

	s.dispatch(ctx, entities.DispatchRequest{
		Phone:       reservation.Phone,
		Message:     confirmationMessage,
		NotifyStaff: false,
	})
	return reservation, nil
}

func (s *ReservationService) ListPending() ([]db.Reservation, error) {
	return s.Repo.ListPending()
}

func (s *ReservationService) ListByPhone(phone string) ([]db.Reservation, error) {
	return s.Repo.ListByPhone(phone)
}

// dispatch is best-effort: delivery failure never propagates to the caller.
func (s *ReservationService) dispatch(ctx context.Context, req entities.DispatchRequest) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(ctx, req); err != nil {
		metrics.DispatchFailures.Inc()
		log.Printf("Notification dispatch for %s failed: %v", req.Phone, err)
	}
}
