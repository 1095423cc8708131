package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Registry holds the loaded ledger of every signed-in owner.
type Registry struct {
	store     Store
	publisher events.Publisher
	assistant *assistant.Assistant

	// Now is the clock of all ledgers opened after it is set.
	Now func() time.Time

	mu      sync.Mutex
	ledgers map[uuid.UUID]*Ledger
}

func NewRegistry(store Store, publisher events.Publisher, a *assistant.Assistant) *Registry {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &Registry{
		store:     store,
		publisher: publisher,
		assistant: a,
		Now:       func() time.Time { return time.Now().UTC() },
		ledgers:   map[uuid.UUID]*Ledger{},
	}
}

// Open returns the owner's ledger, loading it from the store on first use.
// Loading happens outside the registry lock; when two first uses race, the
// ledger stored first wins.
func (r *Registry) Open(ctx context.Context, owner uuid.UUID) (*Ledger, error) {
	r.mu.Lock()
	l, ok := r.ledgers[owner]
	r.mu.Unlock()
	if ok {
		return l, nil
	}

	l = &Ledger{
		owner:     owner,
		store:     r.store,
		publisher: r.publisher,
		assistant: r.assistant,
		now:       r.Now,
	}

	if err := l.load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if loaded, ok := r.ledgers[owner]; ok {
		return loaded, nil
	}

	r.ledgers[owner] = l
	log.Debug().Str("owner", owner.String()).Int("count", len(l.transactions)).Msg("ledger loaded")

	return l, nil
}

// Close unloads the owner's ledger. The next Open reloads it.
func (r *Registry) Close(owner uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ledgers, owner)
}
