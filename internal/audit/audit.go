// Package audit captures the compliance trail for document lifecycle events.
// Domain services emit transport-agnostic events; publishers fan them out to
// Kafka or an in-process worker depending on deployment.
package audit

import (
	"context"
	"time"

	id "docseva/pkg/domain"
)

// Action names a lifecycle event.
type Action string

const (
	ActionDocumentSubmitted Action = "document_submitted"
	ActionDocumentVerified  Action = "document_verified"
	ActionDocumentRejected  Action = "document_rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action       Action        `json:"action"`
	Timestamp    time.Time     `json:"timestamp"`
	DocumentID   id.DocumentID `json:"documentId"`
	CitizenID    id.CitizenID  `json:"citizenId"`
	OfficerID    id.OfficerID  `json:"officerId,omitzero"`
	DocumentType string        `json:"documentType"`
	Reason       string        `json:"reason,omitempty"`
	RequestID    string        `json:"requestId,omitempty"`
}

// Publisher delivers audit events. Implementations must not block the calling
// request path on broker availability.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists audit events for deployments without a broker.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// NopPublisher drops events. Used when auditing is disabled in tests.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) error { return nil }
