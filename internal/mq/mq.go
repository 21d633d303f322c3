// Package mq carries domain events (registration, audit) over a
// broker-agnostic bus.
package mq

import (
	"context"
	"fmt"

	"github.com/apolion-games/mentorhub/config"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// Bus wraps a backend with a stable API.
type Bus struct {
	backend Backend
}

// NewBus constructs a Bus for the provided backend.
func NewBus(backend Backend) *Bus {
	return &Bus{backend: backend}
}

// NewBusFromConfig connects the configured backend. An empty backend
// returns a nil bus, meaning events are disabled.
func NewBusFromConfig(ctx context.Context, cfg config.MQConfig) (*Bus, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "rabbitmq":
		client, err := NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return NewBus(client), nil
	case "pubsub":
		client, err := NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, fmt.Errorf("pubsub: %w", err)
		}
		return NewBus(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

// Publish sends a message to the named channel.
func (b *Bus) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return b.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe consumes messages from the named channel.
func (b *Bus) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return b.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (b *Bus) Close() error {
	return b.backend.Close()
}
