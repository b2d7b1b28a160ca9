package feed

import (
	"encoding/json"
	"fmt"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
)

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
)

// Event is one tagged change emitted by the store. Record always carries the
// full new row state.
type Event struct {
	Action Action         `json:"action"`
	Record db.Reservation `json:"record"`
}

// DecodeEvent parses a NOTIFY payload produced by the reservations trigger.
func DecodeEvent(payload string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return Event{}, fmt.Errorf("error decoding feed payload: %w", err)
	}
	if ev.Action != ActionInsert && ev.Action != ActionUpdate {
		return Event{}, fmt.Errorf("unexpected feed action %q", ev.Action)
	}
	return ev, nil
}

// Filter scopes a subscription. The zero value matches every record.
type Filter struct {
	Phone       string
	PendingOnly bool
}

// Matches reports whether a record belongs in a view scoped by this filter.
func (f Filter) Matches(r db.Reservation) bool {
	if f.PendingOnly && r.AdminResponse {
		return false
	}
	if f.Phone != "" && r.Phone != f.Phone {
		return false
	}
	return true
}

// wants decides delivery. Inserts are delivered only when they match.
// Updates are delivered whenever the record's phone is in scope, even if the
// new state no longer matches (a pending-only view needs the update that
// confirms a record so it can drop it).
func (f Filter) wants(ev Event) bool {
	switch ev.Action {
	case ActionInsert:
		return f.Matches(ev.Record)
	case ActionUpdate:
		return f.Phone == "" || f.Phone == ev.Record.Phone
	}
	return false
}
