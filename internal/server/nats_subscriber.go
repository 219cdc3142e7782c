package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/models"
)

// Sweeper runs a sweep on demand. *reminder.Service satisfies it.
type Sweeper interface {
	TriggerLeaseSweep(ctx context.Context) []models.SweepEvent
	TriggerPaymentSweep(ctx context.Context) []models.SweepEvent
}

// TriggerReply is the response to a trigger request
type TriggerReply struct {
	Monitor string              `json:"monitor"`
	Events  []models.SweepEvent `json:"events"`
	Error   string              `json:"error,omitempty"`
}

// NATSSubscriber answers sweep trigger requests on <prefix>.trigger.<lease|payments>
type NATSSubscriber struct {
	nc      *nats.Conn
	sweeper Sweeper
	prefix  string
	subs    []*nats.Subscription
}

// NewNATSSubscriber creates NATS subscriber
func NewNATSSubscriber(nc *nats.Conn, sweeper Sweeper, prefix string) *NATSSubscriber {
	return &NATSSubscriber{
		nc:      nc,
		sweeper: sweeper,
		prefix:  prefix,
		subs:    make([]*nats.Subscription, 0),
	}
}

// Start subscribes and blocks until ctx is cancelled
func (s *NATSSubscriber) Start(ctx context.Context) error {
	subject := s.prefix + ".trigger.*"
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		s.handleTrigger(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	s.subs = append(s.subs, sub)

	log.Info().
		Str("subject", subject).
		Msg("NATS trigger subscriber started")

	<-ctx.Done()

	// Unsubscribe
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}

	return nil
}

// handleTrigger runs the requested sweep and replies when the request has a reply subject
func (s *NATSSubscriber) handleTrigger(ctx context.Context, msg *nats.Msg) {
	reply := s.trigger(ctx, msg.Subject)

	data, err := json.Marshal(reply)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal trigger reply")
		return
	}

	if msg.Reply == "" {
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to reply to trigger request")
	}
}

// trigger maps a subject to its sweep
func (s *NATSSubscriber) trigger(ctx context.Context, subject string) TriggerReply {
	target := subject[strings.LastIndex(subject, ".")+1:]

	log.Info().Str("subject", subject).Msg("Sweep triggered over NATS")

	switch target {
	case "lease":
		return TriggerReply{Monitor: target, Events: s.sweeper.TriggerLeaseSweep(ctx)}
	case "payments":
		return TriggerReply{Monitor: target, Events: s.sweeper.TriggerPaymentSweep(ctx)}
	default:
		return TriggerReply{Monitor: target, Error: fmt.Sprintf("unknown monitor %q", target)}
	}
}
