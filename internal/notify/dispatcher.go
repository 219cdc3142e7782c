// Package notify formats and delivers notification emails.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/metrics"
)

// Notification results recorded in metrics
const (
	ResultSent     = "sent"
	ResultFailed   = "failed"
	ResultDisabled = "disabled"
)

// Dispatcher attempts delivery of notifications and never fails the caller.
// A disabled dispatcher (no SMTP credentials) logs and reports false.
type Dispatcher struct {
	mailer  Mailer
	enabled bool
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewDispatcher creates a dispatcher. m may be nil.
func NewDispatcher(cfg config.MailConfig, mailer Mailer, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		mailer:  mailer,
		enabled: cfg.Enabled() && mailer != nil,
		timeout: cfg.Timeout,
		metrics: m,
	}
}

// Enabled reports whether the dispatcher will attempt delivery
func (d *Dispatcher) Enabled() bool {
	return d.enabled
}

// SendNotification attempts to deliver one email and reports whether it was sent
func (d *Dispatcher) SendNotification(ctx context.Context, to, subject, body string) bool {
	if !d.enabled {
		log.Warn().Str("to", to).Str("subject", subject).Msg("Mail transport not configured, notification skipped")
		d.metrics.RecordNotification(ResultDisabled)
		return false
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("Failed to send notification")
		d.metrics.RecordNotification(ResultFailed)
		return false
	}

	log.Info().Str("to", to).Str("subject", subject).Msg("Notification sent")
	d.metrics.RecordNotification(ResultSent)
	return true
}
