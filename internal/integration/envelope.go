// Package integration fans sweep events out to the event log, NATS, MQTT
// and HTTP webhooks.
package integration

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pg-management/pg-server/internal/models"
)

// Envelope is the wire form of a published sweep event
type Envelope struct {
	Source    string            `json:"source"`
	Monitor   models.Monitor    `json:"monitor"`
	Kind      string            `json:"kind"`
	Timestamp time.Time         `json:"timestamp"`
	Event     models.SweepEvent `json:"event"`
}

func newEnvelope(ev models.SweepEvent) Envelope {
	return Envelope{
		Source:    "pg-server",
		Monitor:   ev.Monitor,
		Kind:      string(ev.Kind),
		Timestamp: ev.At,
		Event:     ev,
	}
}

func marshalEvent(ev models.SweepEvent) ([]byte, error) {
	return json.Marshal(newEnvelope(ev))
}

// expandTopic fills the {monitor} and {kind} placeholders of pattern
func expandTopic(pattern string, ev models.SweepEvent) string {
	topic := strings.ReplaceAll(pattern, "{monitor}", string(ev.Monitor))
	return strings.ReplaceAll(topic, "{kind}", string(ev.Kind))
}
