package bus

import (
	"log/slog"
	"reflect"

	"github.com/cskr/pubsub"
)

const (
	TopicSettingsChanged = "settings.changed"
	TopicSettingsCleared = "settings.cleared"
	TopicServerResolved  = "settings.server"
)

const defaultCapacity = 32

type Subscription chan any

// Publisher is the write side of the bus used by settings consumers.
type Publisher interface {
	Publish(topic string, msg any)
}

type MessageBus interface {
	Publisher
	Subscribe(topics ...string) Subscription
	Unsubscribe(ch Subscription, topics ...string)
	Close()
}

type PubSubBus struct {
	ps     *pubsub.PubSub
	logger *slog.Logger
}

func New(logger *slog.Logger) *PubSubBus {
	if logger == nil {
		logger = slog.Default()
	}

	return &PubSubBus{
		ps:     pubsub.New(defaultCapacity),
		logger: logger,
	}
}

func (b *PubSubBus) Publish(topic string, msg any) {
	b.logger.Debug("publish", "topic", topic, "payload_type", payloadType(msg))
	b.ps.Pub(msg, topic)
}

func (b *PubSubBus) Subscribe(topics ...string) Subscription {
	ch := b.ps.Sub(topics...)
	b.logger.Debug("subscribe", "topics", topics)

	return ch
}

func (b *PubSubBus) Unsubscribe(ch Subscription, topics ...string) {
	if len(topics) == 0 {
		b.ps.Unsub(ch)
		b.logger.Debug("unsubscribe", "mode", "all")

		return
	}
	b.ps.Unsub(ch, topics...)
	b.logger.Debug("unsubscribe", "topics", topics)
}

func (b *PubSubBus) Close() {
	b.ps.Shutdown()
}

func payloadType(v any) string {
	if v == nil {
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}
