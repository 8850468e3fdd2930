// Package events publishes account lifecycle notifications to downstream consumers.
package events

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks . Publisher

type Type string

const (
	UserCreated     Type = "user.created"
	UserUpdated     Type = "user.updated"
	UserRoleChanged Type = "user.role_changed"
	UserDeleted     Type = "user.deleted"
	OTPIssued       Type = "otp.issued"
)

// Event is the payload published for an account change. It never carries secrets.
type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId,omitempty"`
	Email      string    `json:"email"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
