package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedMessage struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeClient struct {
	messages []recordedMessage
	err      error
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, recordedMessage{topic: topic, qos: qos, payload: payload})
	return nil
}

func TestMQTTPublisher_Publish(t *testing.T) {
	client := &fakeClient{}
	p := NewMQTTPublisher(client, "people/")

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.Publish(context.Background(), Event{Type: UserCreated, UserID: "u1", Email: "a@x.com", Role: "User", OccurredAt: at})
	require.NoError(t, err)

	require.Len(t, client.messages, 1)
	msg := client.messages[0]
	assert.Equal(t, "people/user/created", msg.topic)
	assert.Equal(t, byte(1), msg.qos)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.payload, &decoded))
	assert.Equal(t, "user.created", decoded["type"])
	assert.Equal(t, "u1", decoded["userId"])
	assert.Equal(t, "a@x.com", decoded["email"])
}

func TestMQTTPublisher_Errors(t *testing.T) {
	p := NewMQTTPublisher(&fakeClient{err: errors.New("broker down")}, "")
	assert.Equal(t, "otp/issued", p.Topic(OTPIssued))

	err := p.Publish(context.Background(), Event{Type: OTPIssued, Email: "a@x.com"})
	assert.ErrorContains(t, err, "broker down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, Event{Type: OTPIssued}), context.Canceled)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: UserDeleted}))
}
