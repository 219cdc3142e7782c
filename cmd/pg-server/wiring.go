package main

import (
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/integration"
	"github.com/pg-management/pg-server/internal/metrics"
	"github.com/pg-management/pg-server/internal/notify"
	"github.com/pg-management/pg-server/internal/reminder"
	"github.com/pg-management/pg-server/internal/storage"
)

// services are the long-lived collaborators shared by the serve and sweep commands
type services struct {
	reminders *reminder.Service
	nc        *nats.Conn
	closers   []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// buildServices wires the dispatcher and event sinks into a reminder service.
// Optional transports that fail to connect are logged and skipped.
func buildServices(cfg *config.Config, store storage.Store, m *metrics.Metrics) *services {
	svc := &services{}

	dispatcher := notify.NewDispatcher(cfg.Mail, notify.NewSMTPMailer(cfg.Mail), m)
	if !dispatcher.Enabled() {
		log.Warn().Msg("Mail credentials not set, notifications will be logged and skipped")
	}

	sinks := []reminder.Sink{integration.NewEventLogSink(store)}

	if cfg.NATS.URL != "" {
		log.Info().Str("url", cfg.NATS.URL).Msg("Connecting to NATS...")
		nc, err := integration.ConnectNATS(cfg.NATS)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to NATS, continuing without NATS support")
		} else {
			svc.nc = nc
			svc.closers = append(svc.closers, nc.Close)
			sinks = append(sinks, integration.NewNATSPublisher(nc, cfg.NATS.SubjectPrefix))
		}
	}

	if cfg.MQTT.BrokerURL != "" {
		client, err := integration.ConnectMQTT(cfg.MQTT)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to MQTT, continuing without MQTT support")
		} else {
			pub := integration.NewMQTTPublisher(client, cfg.MQTT)
			svc.closers = append(svc.closers, pub.Close)
			sinks = append(sinks, pub)
		}
	}

	if cfg.Webhook.URL != "" {
		sinks = append(sinks, integration.NewWebhookSink(cfg.Webhook))
	}

	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	log.Info().Strs("sinks", names).Msg("Event sinks configured")

	svc.reminders = reminder.NewService(cfg.Reminder, store, dispatcher,
		reminder.WithSinks(sinks...),
		reminder.WithMetrics(m),
	)
	return svc
}
