package mq

import (
	"context"
	"testing"

	"github.com/apolion-games/mentorhub/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	publishedChannel  string
	publishedData     []byte
	publishedAttrs    map[string]string
	subscribedChannel string
	delivered         Message
	closed            bool
}

func (s *stubBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	s.publishedChannel = channel
	s.publishedData = data
	s.publishedAttrs = attrs
	return "msg-1", nil
}

func (s *stubBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	s.subscribedChannel = channel
	return handler(ctx, s.delivered)
}

func (s *stubBackend) Close() error {
	s.closed = true
	return nil
}

func TestBusPublish(t *testing.T) {
	backend := &stubBackend{}
	bus := NewBus(backend)

	id, err := bus.Publish(context.Background(), "registration.completed", []byte(`{}`), map[string]string{"role": "mentee"})
	require.NoError(t, err)

	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "registration.completed", backend.publishedChannel)
	assert.Equal(t, "mentee", backend.publishedAttrs["role"])
}

func TestBusSubscribe(t *testing.T) {
	backend := &stubBackend{
		delivered: Message{ID: "msg-1", Data: []byte(`{"accountId":"acc-1"}`)},
	}
	bus := NewBus(backend)

	var got Message
	err := bus.Subscribe(context.Background(), "registration.completed", func(ctx context.Context, msg Message) error {
		got = msg
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "registration.completed", backend.subscribedChannel)
	assert.Equal(t, "msg-1", got.ID)
}

func TestBusClose(t *testing.T) {
	backend := &stubBackend{}
	require.NoError(t, NewBus(backend).Close())
	assert.True(t, backend.closed)
}

func TestNewBusFromConfig(t *testing.T) {
	bus, err := NewBusFromConfig(context.Background(), config.MQConfig{})
	require.NoError(t, err)
	assert.Nil(t, bus, "empty backend disables events")

	_, err = NewBusFromConfig(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)
}
