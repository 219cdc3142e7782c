package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/pg-management/pg-server/internal/config"
	"github.com/pg-management/pg-server/internal/models"
)

// MQTTPublisher publishes sweep events on a topic built from the configured pattern
type MQTTPublisher struct {
	client  mqtt.Client
	pattern string
	qos     byte
	timeout time.Duration
}

// NewMQTTPublisher creates an MQTT publisher over a connected client
func NewMQTTPublisher(client mqtt.Client, cfg config.MQTTConfig) *MQTTPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTTPublisher{
		client:  client,
		pattern: cfg.TopicPattern,
		qos:     cfg.QoS,
		timeout: timeout,
	}
}

// ConnectMQTT creates and connects an MQTT client
func ConnectMQTT(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Info().Str("broker", cfg.BrokerURL).Msg("MQTT client connected")
	})

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Error().Err(err).Str("broker", cfg.BrokerURL).Msg("MQTT connection lost")
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if err := awaitConnect(client, token, 10*time.Second); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.BrokerURL, err)
	}

	return client, nil
}

// awaitConnect waits for the connect token. On failure the client is
// disconnected so connect-retry stops redialling in the background.
func awaitConnect(client mqtt.Client, token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		client.Disconnect(0)
		return errors.New("timeout")
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return err
	}
	return nil
}

// Topic returns the topic an event is published on
func (p *MQTTPublisher) Topic(ev models.SweepEvent) string {
	return expandTopic(p.pattern, ev)
}

// Name implements reminder.Sink
func (p *MQTTPublisher) Name() string {
	return "mqtt"
}

// Publish implements reminder.Sink
func (p *MQTTPublisher) Publish(ctx context.Context, events []models.SweepEvent) error {
	var errs []error
	for _, ev := range events {
		data, err := marshalEvent(ev)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		topic := p.Topic(ev)
		token := p.client.Publish(topic, p.qos, false, data)
		if !token.WaitTimeout(p.timeout) {
			errs = append(errs, fmt.Errorf("publish %s: timeout", topic))
			continue
		}
		if err := token.Error(); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", topic, err))
			continue
		}

		log.Debug().Str("topic", topic).Msg("Sweep event published to MQTT")
	}
	return errors.Join(errs...)
}

// Close disconnects the client
func (p *MQTTPublisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
