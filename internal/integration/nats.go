package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/models"
)

// Publisher is the part of *nats.Conn used to publish events
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes sweep events on <prefix>.<monitor>.<kind>
type NATSPublisher struct {
	nc     Publisher
	prefix string
}

// NewNATSPublisher creates a NATS publisher
func NewNATSPublisher(nc Publisher, prefix string) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: prefix}
}

// ConnectNATS connects to the NATS server named in cfg
func ConnectNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("pg-server"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectInterval),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// Subject returns the subject an event is published on
func (p *NATSPublisher) Subject(ev models.SweepEvent) string {
	return fmt.Sprintf("%s.%s.%s", p.prefix, ev.Monitor, ev.Kind)
}

// Name implements reminder.Sink
func (p *NATSPublisher) Name() string {
	return "nats"
}

// Publish implements reminder.Sink
func (p *NATSPublisher) Publish(ctx context.Context, events []models.SweepEvent) error {
	var errs []error
	for _, ev := range events {
		data, err := marshalEvent(ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		subject := p.Subject(ev)
		if err := p.nc.Publish(subject, data); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", subject, err))
			continue
		}

		log.Debug().Str("subject", subject).Msg("Sweep event published to NATS")
	}
	return errors.Join(errs...)
}
