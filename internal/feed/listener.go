package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/anuragkelkar1/onesignal-app/internal/metrics"
)

const (
	channelName = "reservations_changes"

	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener bridges Postgres NOTIFY into the Hub. Reconnection and backoff
// are pq.Listener's responsibility; this layer only decodes and fans out.
type Listener struct {
	pq  *pq.Listener
	hub *Hub
}

func NewListener(databaseURL string) *Listener {
	pl := pq.NewListener(databaseURL, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			if err != nil {
				log.Printf("feed: listener event %d: %v", event, err)
			}
		})
	return &Listener{pq: pl, hub: NewHub()}
}

func (l *Listener) Hub() *Hub {
	return l.hub
}

// Run consumes notifications until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.pq.Listen(channelName); err != nil {
		return fmt.Errorf("error listening on %s: %w", channelName, err)
	}
	defer l.pq.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-l.pq.Notify:
			// nil marks a connection re-establishment; consumers
			// recover missed events on their next snapshot.
			if n == nil {
				continue
			}
			ev, err := DecodeEvent(n.Extra)
			if err != nil {
				log.Printf("feed: dropping payload: %v", err)
				continue
			}
			metrics.FeedEvents.Inc()
			l.hub.Publish(ev)
		case <-time.After(pingInterval):
			if err := l.pq.Ping(); err != nil {
				log.Printf("feed: ping failed: %v", err)
			}
		}
	}
}
