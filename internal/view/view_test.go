package view

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anuragkelkar1/onesignal-app/internal/db"
	"github.com/anuragkelkar1/onesignal-app/internal/feed"
)

func waitForState(t *testing.T, updates <-chan []db.Reservation) []db.Reservation {
	t.Helper()
	select {
	case items := <-updates:
		return items
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for view update")
		return nil
	}
}

// waitForLen drains updates until the list reaches the wanted length.
func waitForLen(t *testing.T, updates <-chan []db.Reservation, want int) []db.Reservation {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case items := <-updates:
			if len(items) == want {
				return items
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d items", want)
		}
	}
}

func newTestView(snapshot SnapshotFunc) (*View, *feed.Hub, chan []db.Reservation) {
	hub := feed.NewHub()
	updates := make(chan []db.Reservation, 16)
	v := New(hub, snapshot, func(items []db.Reservation) {
		updates <- items
	})
	return v, hub, updates
}

func TestView_SnapshotSeedsState(t *testing.T) {
	seed := []db.Reservation{
		{ID: 2, Phone: "5551234567"},
		{ID: 1, Phone: "5551234567"},
	}
	v, _, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return seed, nil
	})
	defer v.Close()

	v.SetKey(Key{Phone: "5551234567"})

	items := waitForState(t, updates)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].ID, "snapshot order is preserved")
	assert.Equal(t, seed, v.Items())
}

func TestView_SnapshotFailureLeavesStateEmpty(t *testing.T) {
	v, _, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return nil, errors.New("query failed")
	})
	defer v.Close()

	v.SetKey(Key{PendingOnly: true})

	items := waitForState(t, updates)
	assert.Empty(t, items, "a failed snapshot must not leave stale state")
}

func TestView_InsertPrependsAndDeduplicates(t *testing.T) {
	v, hub, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return nil, nil
	})
	defer v.Close()

	v.SetKey(Key{PendingOnly: true})
	waitForState(t, updates) // empty snapshot applied

	first := db.Reservation{ID: 1, Phone: "5551234567"}
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: first})
	require.Len(t, waitForState(t, updates), 1)

	// The feed echoing the same insert must not duplicate it.
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: first})
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: db.Reservation{ID: 2, Phone: "5559999999"}})

	items := waitForLen(t, updates, 2)
	assert.Equal(t, 2, items[0].ID, "newest first")
	assert.Equal(t, 1, items[1].ID)
}

func TestView_UpdateReplacesInPlace(t *testing.T) {
	v, hub, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return []db.Reservation{{ID: 1, Phone: "5551234567", Message: "Table for two"}}, nil
	})
	defer v.Close()

	v.SetKey(Key{Phone: "5551234567"})
	waitForState(t, updates)

	hub.Publish(feed.Event{Action: feed.ActionUpdate, Record: db.Reservation{
		ID: 1, Phone: "5551234567", Message: "Table for two", AdminResponse: true,
	}})

	items := waitForState(t, updates)
	require.Len(t, items, 1)
	assert.True(t, items[0].AdminResponse, "requester view shows the confirmation in place")
}

func TestView_ConfirmationLeavesPendingView(t *testing.T) {
	v, hub, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return []db.Reservation{
			{ID: 2, Phone: "5559999999"},
			{ID: 1, Phone: "5551234567"},
		}, nil
	})
	defer v.Close()

	v.SetKey(Key{PendingOnly: true})
	waitForLen(t, updates, 2)

	hub.Publish(feed.Event{Action: feed.ActionUpdate, Record: db.Reservation{
		ID: 1, Phone: "5551234567", AdminResponse: true,
	}})

	items := waitForLen(t, updates, 1)
	assert.Equal(t, 2, items[0].ID, "confirmed record drops out of the pending list")
}

func TestView_UpdateForUnknownRecordIgnored(t *testing.T) {
	v, hub, updates := newTestView(func(Key) ([]db.Reservation, error) {
		return []db.Reservation{{ID: 1, Phone: "5551234567"}}, nil
	})
	defer v.Close()

	v.SetKey(Key{Phone: "5551234567"})
	waitForState(t, updates)

	hub.Publish(feed.Event{Action: feed.ActionUpdate, Record: db.Reservation{
		ID: 99, Phone: "5551234567", AdminResponse: true,
	}})
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: db.Reservation{ID: 2, Phone: "5551234567"}})

	items := waitForLen(t, updates, 2)
	for _, r := range items {
		assert.NotEqual(t, 99, r.ID, "unknown update must not be materialized")
	}
}

func TestView_KeyChangeSwitchesScope(t *testing.T) {
	snapshots := map[string][]db.Reservation{
		"5551234567": {{ID: 1, Phone: "5551234567"}},
		"5559999999": {{ID: 2, Phone: "5559999999"}},
	}
	v, hub, updates := newTestView(func(key Key) ([]db.Reservation, error) {
		return snapshots[key.Phone], nil
	})
	defer v.Close()

	v.SetKey(Key{Phone: "5551234567"})
	waitForLen(t, updates, 1)

	v.SetKey(Key{Phone: "5559999999"})
	items := waitForLen(t, updates, 1)
	assert.Equal(t, 2, items[0].ID)

	// Events for the old key must not leak into the new state.
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: db.Reservation{ID: 3, Phone: "5551234567"}})
	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: db.Reservation{ID: 4, Phone: "5559999999"}})

	items = waitForLen(t, updates, 2)
	assert.Equal(t, 4, items[0].ID)
	assert.Equal(t, 2, items[1].ID)
}

func TestView_StaleSnapshotDiscardedAfterKeyChange(t *testing.T) {
	releaseOld := make(chan struct{})
	v, _, updates := newTestView(func(key Key) ([]db.Reservation, error) {
		if key.Phone == "5551234567" {
			<-releaseOld
			return []db.Reservation{{ID: 1, Phone: "5551234567"}}, nil
		}
		return []db.Reservation{{ID: 2, Phone: "5559999999"}}, nil
	})
	defer v.Close()

	v.SetKey(Key{Phone: "5551234567"})
	v.SetKey(Key{Phone: "5559999999"})
	waitForLen(t, updates, 1)

	// The old key's snapshot arrives late; its result must be discarded.
	close(releaseOld)
	time.Sleep(50 * time.Millisecond)

	items := v.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ID)
}

func TestView_NoMutationAfterClose(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	hub := feed.NewHub()
	v := New(hub, func(Key) ([]db.Reservation, error) {
		<-release
		return []db.Reservation{{ID: 1, Phone: "5551234567"}}, nil
	}, func([]db.Reservation) {
		calls.Add(1)
	})

	v.SetKey(Key{Phone: "5551234567"})
	v.Close()
	v.Close() // idempotent

	// Snapshot completes after teardown; nothing may be applied.
	close(release)
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, v.Items())
	assert.Zero(t, calls.Load(), "no state change may be observed after close")

	hub.Publish(feed.Event{Action: feed.ActionInsert, Record: db.Reservation{ID: 2, Phone: "5551234567"}})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, v.Items())
}

func TestView_SetKeyAfterCloseIsNoOp(t *testing.T) {
	v, _, _ := newTestView(func(Key) ([]db.Reservation, error) {
		return []db.Reservation{{ID: 1}}, nil
	})
	v.Close()
	v.SetKey(Key{PendingOnly: true})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, v.Items())
}
