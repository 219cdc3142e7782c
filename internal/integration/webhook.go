package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/models"
)

// WebhookSink posts each sweep batch as a JSON array to an HTTP endpoint
type WebhookSink struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
}

// NewWebhookSink creates a webhook sink
func NewWebhookSink(cfg config.WebhookConfig) *WebhookSink {
	return &WebhookSink{
		url:        cfg.URL,
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name implements reminder.Sink
func (s *WebhookSink) Name() string {
	return "webhook"
}

// Publish implements reminder.Sink. Empty batches are not sent.
func (s *WebhookSink) Publish(ctx context.Context, events []models.SweepEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := make([]Envelope, 0, len(events))
	for _, ev := range events {
		batch = append(batch, newEnvelope(ev))
	}

	jsonData, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal webhook batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook %s returned status %d", s.url, resp.StatusCode)
	}

	log.Debug().
		Str("endpoint", s.url).
		Int("events", len(events)).
		Msg("Sweep events forwarded to webhook")
	return nil
}
