package audit

import (
	"context"

	dErrors "docseva/pkg/domain-errors"
)

// InboxPublisher queues events onto a channel for the Worker. It is the
// broker-less deployment path: emit never blocks, a full inbox drops the
// event rather than stalling a verification decision.
type InboxPublisher struct {
	inbox chan<- Event
}

func NewInboxPublisher(inbox chan<- Event) *InboxPublisher {
	return &InboxPublisher{inbox: inbox}
}

func (p *InboxPublisher) Emit(_ context.Context, event Event) error {
	select {
	case p.inbox <- event:
		return nil
	default:
		return dErrors.New(dErrors.CodeInternal, "audit inbox full, event dropped")
	}
}

// Worker consumes audit events from a channel and persists them. It keeps
// background processing testable without wiring queue implementations.
type Worker struct {
	store Store
	inbox <-chan Event
}

func NewWorker(store Store, inbox <-chan Event) *Worker {
	return &Worker{store: store, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}
