package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anuragkelkar1/onesignal-app/internal/entities"
	errs "github.com/anuragkelkar1/onesignal-app/internal/errors"
	"github.com/anuragkelkar1/onesignal-app/internal/service"
	"github.com/anuragkelkar1/onesignal-app/internal/utils"
)

type UserReservationHandler struct {
	Service ReservationService
}

func NewUserReservationHandler(svc ReservationService) *UserReservationHandler {
	return &UserReservationHandler{Service: svc}
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.WriteJSON(w, http.StatusBadRequest, "Invalid request")
		return
	}

	reservation, err := h.Service.CreateReservation(r.Context(), req)
	if err != nil {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			errs.WriteJSON(w, httpErr.Code, httpErr.Message)
			return
		}
		errs.WriteJSON(w, http.StatusInternalServerError, "Could not create reservation")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateReservationResponse{
		Reservation: *reservation,
		Message:     "Reservation received.",
	})
}

// ListReservations returns the caller's reservation history, scoped by the
// phone query parameter.
func (h *UserReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if ok, msg := service.ValidatePhone(phone); !ok {
		errs.WriteJSON(w, http.StatusBadRequest, msg)
		return
	}

	reservations, err := h.Service.ListByPhone(phone)
	if err != nil {
		errs.WriteJSON(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entities.ReservationsList{
		Total:        len(reservations),
		Reservations: reservations,
	})
}

// PartySizes returns the selectable party sizes for the intake form.
func (h *UserReservationHandler) PartySizes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]int{"party_sizes": utils.PartySizeOptions()})
}
