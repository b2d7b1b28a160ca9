package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/anuragkelkar1/onesignal-app/internal/entities"
	errs "github.com/anuragkelkar1/onesignal-app/internal/errors"
	"github.com/anuragkelkar1/onesignal-app/internal/repository"
)

type AdminHandler struct {
	Service ReservationService
}

func NewAdminHandler(svc ReservationService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// ListPending returns unconfirmed reservations, newest first.
func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Service.ListPending()
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

func (h *AdminHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		errs.WriteJSON(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	reservation, err := h.Service.ConfirmReservation(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			errs.WriteJSON(w, http.StatusNotFound, "Reservation not found or already confirmed")
			return
		}
		errs.WriteJSON(w, http.StatusInternalServerError, "Could not confirm reservation")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConfirmReservationResponse{
		Reservation: *reservation,
		Message:     "Reservation confirmed.",
	})
}
