package ledger

import (
	"context"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/types"
)

// ParseEntry turns free text into a transaction draft using the owner's
// categories. Nothing is stored.
func (l *Ledger) ParseEntry(ctx context.Context, text string) (assistant.Entry, error) {
	l.mu.Lock()
	names := l.categoryNames()
	l.mu.Unlock()

	return l.assistant.ParseEntry(ctx, text, names)
}

// Ask answers a question about the month and records both turns in the
// chat history. The ledger stays usable while the model answers.
func (l *Ledger) Ask(ctx context.Context, question string, month types.Month) (assistant.Message, error) {
	if !l.assistant.Available() {
		return assistant.Message{}, assistant.ErrUnavailable
	}

	asked := assistant.Message{Role: assistant.RoleUser, Content: question}

	l.mu.Lock()
	snapshot := assistant.NewSnapshot(l.transactions, month, l.now())
	history := append(append([]assistant.Message{}, l.chat...), asked)
	l.mu.Unlock()

	reply, err := l.assistant.Advise(ctx, snapshot, history)
	if err != nil {
		return assistant.Message{}, err
	}

	l.mu.Lock()
	l.chat = append(l.chat, asked, reply)
	l.mu.Unlock()

	return reply, nil
}

func (l *Ledger) ChatHistory() []assistant.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]assistant.Message{}, l.chat...)
}

func (l *Ledger) ClearChat() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.chat = nil
}
