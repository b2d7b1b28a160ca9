package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
	errs "github.com/anuragkelkar1/onesignal-app/internal/errors"
	"github.com/anuragkelkar1/onesignal-app/internal/service"
	"github.com/anuragkelkar1/onesignal-app/internal/view"
)

// StreamHandler serves the live reservation lists over SSE. Each connection
// mounts one view: snapshot first, then feed-merged updates, torn down when
// the client goes away.
type StreamHandler struct {
	Service ReservationService
	Source  view.Source
}

func NewStreamHandler(svc ReservationService, source view.Source) *StreamHandler {
	return &StreamHandler{Service: svc, Source: source}
}

// AdminStream streams the pending list.
func (h *StreamHandler) AdminStream(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, view.Key{PendingOnly: true})
}

// UserStream streams the reservations for one phone number.
func (h *StreamHandler) UserStream(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if ok, msg := service.ValidatePhone(phone); !ok {
		errs.WriteJSON(w, http.StatusBadRequest, msg)
		return
	}
	h.stream(w, r, view.Key{Phone: phone})
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, key view.Key) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		errs.WriteJSON(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The view pushes list states here; a full channel drops intermediate
	// states, the client always catches up with the latest one.
	updates := make(chan []db.Reservation, 8)
	v := view.New(h.Source, h.snapshot, func(items []db.Reservation) {
		select {
		case updates <- items:
		default:
		}
	})
	v.SetKey(key)
	defer v.Close()

	for {
		select {
		case <-r.Context().Done():
			return
		case items := <-updates:
			payload, err := json.Marshal(items)
			if err != nil {
				log.Printf("stream: error encoding list state: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) snapshot(key view.Key) ([]db.Reservation, error) {
	if key.Phone != "" {
		return h.Service.ListByPhone(key.Phone)
	}
	return h.Service.ListPending()
}
