// internal/audit/emitter.go
// Side-effect boundary for authorization decisions. Emitting is fire and
// forget: a failed sink is logged and swallowed, never surfaced to the
// decision path.

package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "audit_decisions_total",
		Help: "Total number of authorization decisions by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// Emitter fans decision events out to the log, prometheus, an optional redis
// channel, and connected websocket clients.
type Emitter struct {
	rdb     *redis.Client // nil when redis is not configured
	channel string
	hub     *Hub // nil when the event stream is disabled
}

func NewEmitter(rdb *redis.Client, channel string, hub *Hub) *Emitter {
	return &Emitter{rdb: rdb, channel: channel, hub: hub}
}

// Emit reports one decision. Safe to call from any goroutine; never returns
// an error and never panics into the caller.
func (e *Emitter) Emit(ctx context.Context, kind EventKind, allowed bool, reason string, subjectIDs ...string) {
	event := Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		Allowed:    allowed,
		Reason:     reason,
		SubjectIDs: subjectIDs,
		At:         time.Now().UTC(),
	}

	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	decisionsTotal.WithLabelValues(string(kind), outcome).Inc()

	log.Printf("decision kind=%s outcome=%s reason=%q subjects=%v", kind, outcome, reason, subjectIDs)

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("audit: marshal event: %v", err)
		return
	}

	if e.rdb != nil {
		// Best effort; a short deadline keeps a slow redis off the hot path.
		pubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.rdb.Publish(pubCtx, e.channel, payload).Err(); err != nil {
			log.Printf("audit: redis publish failed: %v", err)
		}
	}

	if e.hub != nil {
		e.hub.Broadcast(event.SubjectIDs, payload)
	}
}
