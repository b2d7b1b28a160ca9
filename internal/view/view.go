package view

import (
	"log"
	"sync"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
	"github.com/anuragkelkar1/onesignal-app/internal/feed"
)

// Key scopes a view: the admin surface uses PendingOnly, a requester surface
// uses its phone number.
type Key struct {
	Phone       string
	PendingOnly bool
}

func (k Key) filter() feed.Filter {
	return feed.Filter{Phone: k.Phone, PendingOnly: k.PendingOnly}
}

// SnapshotFunc fetches the current records for a key, newest first.
type SnapshotFunc func(key Key) ([]db.Reservation, error)

// Source produces live feed subscriptions.
type Source interface {
	Subscribe(filter feed.Filter) *feed.Subscription
}

// View keeps a local reservation list consistent with the store: a snapshot
// seeds it wholesale, then feed events are merged in by id. At most one feed
// subscription is live per view; changing the key tears the old one down
// before the new one is opened, and a snapshot that returns after the key
// changed (or after Close) is discarded rather than applied.
type View struct {
	source   Source
	snapshot SnapshotFunc
	onChange func([]db.Reservation)

	mu     sync.Mutex
	key    Key
	epoch  int
	items  []db.Reservation
	sub    *feed.Subscription
	closed bool
}

// New builds an empty view. onChange receives a copy of the list after every
// mutation and may be nil; it must not call back into the view.
func New(source Source, snapshot SnapshotFunc, onChange func([]db.Reservation)) *View {
	return &View{source: source, snapshot: snapshot, onChange: onChange}
}

// SetKey switches the view's scope: the previous subscription is released,
// local state is cleared, and a fresh snapshot plus a new subscription are
// started for the new key.
func (v *View) SetKey(key Key) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.epoch++
	epoch := v.epoch
	if v.sub != nil {
		v.sub.Close()
	}
	v.key = key
	v.items = nil
	sub := v.source.Subscribe(key.filter())
	v.sub = sub
	v.mu.Unlock()

	go v.consume(sub, epoch)
	go v.loadSnapshot(key, epoch)
}

// Items returns a copy of the current list.
func (v *View) Items() []db.Reservation {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]db.Reservation, len(v.items))
	copy(out, v.items)
	return out
}

// Close releases the live subscription and suppresses any in-flight snapshot
// result. Safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.sub != nil {
		v.sub.Close()
		v.sub = nil
	}
}

func (v *View) loadSnapshot(key Key, epoch int) {
	items, err := v.snapshot(key)

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || epoch != v.epoch {
		// Late result for a torn-down or re-keyed view.
		return
	}
	if err != nil {
		log.Printf("view: snapshot failed: %v", err)
		v.items = nil
		v.notifyLocked()
		return
	}
	v.items = items
	v.notifyLocked()
}

func (v *View) consume(sub *feed.Subscription, epoch int) {
	for ev := range sub.Events() {
		v.apply(ev, epoch)
	}
}

func (v *View) apply(ev feed.Event, epoch int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || epoch != v.epoch {
		return
	}

	switch ev.Action {
	case feed.ActionInsert:
		// The feed may echo a record the snapshot already delivered.
		for _, r := range v.items {
			if r.ID == ev.Record.ID {
				return
			}
		}
		v.items = append([]db.Reservation{ev.Record}, v.items...)
		v.notifyLocked()
	case feed.ActionUpdate:
		for i, r := range v.items {
			if r.ID != ev.Record.ID {
				continue
			}
			if v.key.filter().Matches(ev.Record) {
				v.items[i] = ev.Record
			} else {
				// Confirmed records fall out of a pending view.
				v.items = append(v.items[:i], v.items[i+1:]...)
			}
			v.notifyLocked()
			return
		}
		// No local match: the next snapshot will reconcile.
	}
}

func (v *View) notifyLocked() {
	if v.onChange == nil {
		return
	}
	out := make([]db.Reservation, len(v.items))
	copy(out, v.items)
	v.onChange(out)
}
