package ledger

import (
	"context"
	"strings"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/ryanuber/go-glob"
	"golang.org/x/text/cases"
)

// DefaultLimit is the page size used when a filter sets none.
const DefaultLimit = 50

type Filter struct {
	Month    *types.Month
	Kind     models.Kind
	Category string
	Search   string // Glob over description and category, case-insensitive
	Offset   uint
	Limit    int // Negative for no limit
}

func (f Filter) matches(tx models.Transaction, fold cases.Caser, search string) bool {
	if f.Month != nil && !f.Month.Contains(tx.Date) {
		return false
	}

	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}

	if f.Category != "" && tx.Category != f.Category {
		return false
	}

	if search == "" {
		return true
	}

	return glob.Glob(search, fold.String(tx.Description)) || glob.Glob(search, fold.String(tx.Category))
}

// List returns the filtered transactions, newest first, and the number of
// matches before pagination. Filtering by month books a due salary first.
func (l *Ledger) List(ctx context.Context, f Filter) ([]models.Transaction, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f.Month != nil {
		if _, err := l.ensureSalary(ctx, *f.Month); err != nil {
			return nil, 0, err
		}
	}

	fold := cases.Fold()

	// Plain words match anywhere
	search := fold.String(strings.TrimSpace(f.Search))
	if search != "" && !strings.Contains(search, "*") {
		search = "*" + search + "*"
	}

	matches := make([]models.Transaction, 0)
	for _, tx := range l.transactions {
		if f.matches(tx, fold, search) {
			matches = append(matches, tx)
		}
	}

	total := len(matches)

	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	if int(f.Offset) >= total {
		return []models.Transaction{}, total, nil
	}

	matches = matches[f.Offset:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}

	return matches, total, nil
}
