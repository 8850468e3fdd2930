package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// messagePublisher is the subset of the MQTT client used for publishing.
type messagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
}

// MQTTPublisher publishes events as JSON to <prefix>/<event type> with QoS 1.
type MQTTPublisher struct {
	client messagePublisher
	prefix string
}

func NewMQTTPublisher(client messagePublisher, topicPrefix string) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		prefix: strings.TrimSuffix(topicPrefix, "/"),
	}
}

func (p *MQTTPublisher) Topic(t Type) string {
	name := strings.ReplaceAll(string(t), ".", "/")
	if p.prefix == "" {
		return name
	}
	return p.prefix + "/" + name
}

func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := p.client.Publish(p.Topic(event.Type), 1, false, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}
