// Package assistant turns free text into transaction drafts and answers
// questions about an owner's finances with a generative model.
//
// The assistant never writes anything. Without a generator every call
// returns ErrUnavailable and the rest of the application keeps working.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fincontrol/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	ErrUnavailable   = errors.New("the assistant is not available")
	ErrNotUnderstood = errors.New("could not understand the entry, please rephrase it")
)

// Apology is answered when the model fails.
const Apology = "Desculpe, tive um problema e não consegui processar sua mensagem agora."

// HistoryTurns is the number of chat messages sent along with a question.
const HistoryTurns = 5

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role" example:"user"`
	Content string `json:"content" example:"Quanto gastei com lazer?"`
}

// Entry is a transaction draft extracted from free text.
type Entry struct {
	Description string          `json:"description" example:"Almoço"`
	Amount      decimal.Decimal `json:"amount" example:"35.9"`
	Kind        models.Kind     `json:"type" example:"expense"`
	Category    string          `json:"category" example:"Alimentação"`
}

type Assistant struct {
	generator Generator
}

func New(generator Generator) *Assistant {
	return &Assistant{generator: generator}
}

// Available reports whether a generator is configured.
func (a *Assistant) Available() bool {
	return a != nil && a.generator != nil
}

// ParseEntry extracts a transaction draft from text. The category is one of
// categories or models.FallbackCategory.
func (a *Assistant) ParseEntry(ctx context.Context, text string, categories []string) (Entry, error) {
	if !a.Available() {
		return Entry{}, ErrUnavailable
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Entry{}, ErrNotUnderstood
	}

	out, err := a.generator.Generate(ctx, entryPrompt(text, categories), JSON())
	if err != nil {
		log.Error().Err(err).Msg("parse entry")
		return Entry{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return DecodeEntry(out, categories)
}

var fences = strings.NewReplacer("```json", "", "```", "")

// DecodeEntry decodes a model answer into an Entry.
func DecodeEntry(out string, categories []string) (Entry, error) {
	var raw struct {
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        string          `json:"type"`
		Category    string          `json:"category"`
	}

	if err := json.Unmarshal([]byte(strings.TrimSpace(fences.Replace(out))), &raw); err != nil {
		return Entry{}, ErrNotUnderstood
	}

	entry := Entry{
		Description: strings.TrimSpace(raw.Description),
		Amount:      raw.Amount,
		Kind:        models.Kind(strings.ToLower(strings.TrimSpace(raw.Type))),
		Category:    matchCategory(raw.Category, categories),
	}

	if entry.Kind == "" {
		entry.Kind = models.KindExpense
	}

	if entry.Description == "" || !entry.Amount.IsPositive() || !entry.Kind.Valid() {
		return Entry{}, ErrNotUnderstood
	}

	return entry, nil
}

func matchCategory(name string, categories []string) string {
	fold := cases.Fold()
	want := fold.String(strings.TrimSpace(name))

	for _, c := range categories {
		if fold.String(c) == want {
			return c
		}
	}

	return models.FallbackCategory
}

// Advise answers a question about the snapshot. The last HistoryTurns
// messages of history are sent along. Generator failures are answered with
// Apology.
func (a *Assistant) Advise(ctx context.Context, snapshot Snapshot, history []Message) (Message, error) {
	if !a.Available() {
		return Message{}, ErrUnavailable
	}

	if len(history) > HistoryTurns {
		history = history[len(history)-HistoryTurns:]
	}

	prompt, err := advicePrompt(snapshot, history)
	if err != nil {
		return Message{}, err
	}

	out, err := a.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		log.Warn().Err(err).Str("month", snapshot.Month.String()).Msg("advise")
		return Message{Role: RoleAssistant, Content: Apology}, nil
	}

	return Message{Role: RoleAssistant, Content: strings.TrimSpace(out)}, nil
}
