// Package events announces changes to an owner's transactions to other
// services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TransactionCreated     Type = "transaction.created"
	TransactionUpdated     Type = "transaction.updated"
	TransactionCascaded    Type = "transaction.cascaded"
	TransactionDeleted     Type = "transaction.deleted"
	TransactionPaidToggled Type = "transaction.paid_toggled"
	SalaryInjected         Type = "salary.injected"
)

type Event struct {
	Type           Type        `json:"type"`
	OwnerID        uuid.UUID   `json:"ownerId"`
	TransactionIDs []uuid.UUID `json:"transactionIds"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

func New(t Type, owner uuid.UUID, ids ...uuid.UUID) Event {
	return Event{
		Type:           t,
		OwnerID:        owner,
		TransactionIDs: ids,
		OccurredAt:     time.Now().UTC(),
	}
}

// Publisher delivers events. Callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error {
	return nil
}
