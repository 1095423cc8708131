// Package ledger holds the loaded state of each signed-in owner: their
// transactions, categories, salary settings and assistant chat.
//
// Every mutation is written to the store first. The in-memory state only
// changes once the store confirmed the write, so a failed write leaves it
// untouched. Operations on one Ledger are serialised; the assistant is
// consulted without holding the ledger.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fincontrol/backend/internal/assistant"
	"github.com/fincontrol/backend/internal/cascade"
	"github.com/fincontrol/backend/internal/events"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/recurrence"
	"github.com/fincontrol/backend/internal/report"
	"github.com/fincontrol/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrAutoSalaryNotEditable = errors.New("the automatic salary cannot be edited, change the salary settings instead")
	ErrPaidIncome            = errors.New("only expenses can be marked as paid")
)

// Store persists an owner's data.
type Store interface {
	Transactions(ctx context.Context, owner uuid.UUID) ([]models.Transaction, error)
	CreateTransactions(ctx context.Context, owner uuid.UUID, transactions []models.Transaction) ([]models.Transaction, error)
	SaveTransaction(ctx context.Context, owner uuid.UUID, transaction models.Transaction) (models.Transaction, error)
	SeriesCandidates(ctx context.Context, owner uuid.UUID, kind models.Kind, after time.Time) ([]models.Transaction, error)
	ApplyUpdates(ctx context.Context, owner uuid.UUID, updates []cascade.Update) error
	SetPaid(ctx context.Context, owner, id uuid.UUID, paid bool) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, owner, id uuid.UUID) error
	Categories(ctx context.Context, owner uuid.UUID) ([]models.Category, error)
	CreateCategories(ctx context.Context, owner uuid.UUID, names []string) ([]models.Category, error)
	DeleteCategory(ctx context.Context, owner, id uuid.UUID) error
	Settings(ctx context.Context, owner uuid.UUID) (models.Settings, error)
	SaveSettings(ctx context.Context, owner uuid.UUID, settings models.Settings) (models.Settings, error)
}

type Ledger struct {
	owner     uuid.UUID
	store     Store
	publisher events.Publisher
	assistant *assistant.Assistant
	now       func() time.Time

	mu           sync.Mutex
	transactions []models.Transaction // newest first
	categories   []models.Category
	settings     models.Settings
	chat         []assistant.Message
	reports      map[reportKey]report.Report
}

// reportKey identifies a memoised report. Overdue flags depend on the
// current time, so a report is reused within the hour it was built in.
type reportKey struct {
	month string
	hour  int64
}

func (l *Ledger) Owner() uuid.UUID {
	return l.owner
}

// Now is the ledger's clock. Overdue flags and salary dueness use it.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// load replaces the state with the store's. Owners without categories get
// the default set.
func (l *Ledger) load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.reload(ctx); err != nil {
		return err
	}

	categories, err := l.store.Categories(ctx, l.owner)
	if err != nil {
		return err
	}

	if len(categories) == 0 {
		categories, err = l.store.CreateCategories(ctx, l.owner, models.DefaultCategories)
		if errors.Is(err, models.ErrCategoryNameNotUnique) {
			// Seeded by a concurrent load
			categories, err = l.store.Categories(ctx, l.owner)
		} else if err == nil {
			log.Info().Str("owner", l.owner.String()).Int("count", len(categories)).Msg("seeded categories")
		}
		if err != nil {
			return fmt.Errorf("seeding default categories: %w", err)
		}
	}

	settings, err := l.store.Settings(ctx, l.owner)
	if err != nil {
		return err
	}

	l.categories = categories
	l.settings = settings
	return nil
}

// reload replaces the cached transactions with the store's.
func (l *Ledger) reload(ctx context.Context) error {
	transactions, err := l.store.Transactions(ctx, l.owner)
	if err != nil {
		return err
	}

	l.transactions = transactions
	l.invalidate()
	return nil
}

func (l *Ledger) invalidate() {
	l.reports = map[reportKey]report.Report{}
}

func (l *Ledger) sortTransactions() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.After(l.transactions[j].Date)
	})
}

func (l *Ledger) publish(ctx context.Context, t events.Type, ids ...uuid.UUID) {
	if err := l.publisher.Publish(ctx, events.New(t, l.owner, ids...)); err != nil {
		log.Error().Err(err).Str("owner", l.owner.String()).Str("event", string(t)).Msg("publish")
	}
}

func (l *Ledger) index(id uuid.UUID) (int, error) {
	for i, tx := range l.transactions {
		if tx.ID == id {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w transaction matching your query", models.ErrResourceNotFound)
}

// Transaction returns a cached transaction.
func (l *Ledger) Transaction(id uuid.UUID) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.index(id)
	if err != nil {
		return models.Transaction{}, err
	}

	return l.transactions[i], nil
}

// Create expands the template into its series and stores all records.
func (l *Ledger) Create(ctx context.Context, template recurrence.Template, date time.Time, policy recurrence.Policy) ([]models.Transaction, error) {
	template.OwnerID = l.owner

	records, err := recurrence.GenerateSeries(template, date, policy)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	created, err := l.store.CreateTransactions(ctx, l.owner, records)
	if err != nil {
		return nil, err
	}

	l.transactions = append(l.transactions, created...)
	l.sortTransactions()
	l.invalidate()

	ids := make([]uuid.UUID, 0, len(created))
	for _, tx := range created {
		ids = append(ids, tx.ID)
	}
	l.publish(ctx, events.TransactionCreated, ids...)

	return created, nil
}

// Edit applies the fields to a transaction. For series members, the later
// members of the same series get the new base description, amount and
// category.
func (l *Ledger) Edit(ctx context.Context, id uuid.UUID, fields cascade.Fields) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.index(id)
	if err != nil {
		return models.Transaction{}, err
	}

	original := l.transactions[i]
	if original.AutoSalary {
		return models.Transaction{}, ErrAutoSalaryNotEditable
	}

	if recurrence.StripSuffix(fields.Description) == "" {
		return models.Transaction{}, models.ErrEmptyDescription
	}

	edited := cascade.Apply(original, fields)
	if err := edited.Validate(); err != nil {
		return models.Transaction{}, err
	}

	saved, err := l.store.SaveTransaction(ctx, l.owner, edited)
	if err != nil {
		return models.Transaction{}, err
	}
	l.publish(ctx, events.TransactionUpdated, saved.ID)

	if !original.IsSeries() {
		l.transactions[i] = saved
		l.sortTransactions()
		l.invalidate()
		return saved, nil
	}

	candidates, err := l.store.SeriesCandidates(ctx, l.owner, original.Kind, original.Date)
	if err != nil {
		l.transactions[i] = saved
		l.sortTransactions()
		l.invalidate()
		return models.Transaction{}, err
	}

	updates := cascade.Plan(original, fields, candidates)
	cascadeErr := l.store.ApplyUpdates(ctx, l.owner, updates)

	// Partially applied cascades are not rolled back, so the cache is
	// reloaded either way.
	if err := l.reload(ctx); err != nil {
		return models.Transaction{}, err
	}

	if cascadeErr != nil {
		return models.Transaction{}, cascadeErr
	}

	if len(updates) > 0 {
		ids := make([]uuid.UUID, 0, len(updates))
		for _, u := range updates {
			ids = append(ids, u.ID)
		}
		l.publish(ctx, events.TransactionCascaded, ids...)
		log.Debug().Str("owner", l.owner.String()).Int("count", len(updates)).Msg("cascaded edit")
	}

	return saved, nil
}

// TogglePaid flips the paid flag of an expense.
func (l *Ledger) TogglePaid(ctx context.Context, id uuid.UUID) (models.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.index(id)
	if err != nil {
		return models.Transaction{}, err
	}

	if l.transactions[i].Kind != models.KindExpense {
		return models.Transaction{}, ErrPaidIncome
	}

	saved, err := l.store.SetPaid(ctx, l.owner, id, !l.transactions[i].Paid)
	if err != nil {
		return models.Transaction{}, err
	}

	l.transactions[i] = saved
	l.invalidate()
	l.publish(ctx, events.TransactionPaidToggled, id)

	return saved, nil
}

// Delete removes a single transaction. Other members of its series are kept.
func (l *Ledger) Delete(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, err := l.index(id)
	if err != nil {
		return err
	}

	if err := l.store.DeleteTransaction(ctx, l.owner, id); err != nil {
		return err
	}

	l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
	l.invalidate()
	l.publish(ctx, events.TransactionDeleted, id)

	return nil
}

// EnsureSalary books the automatic salary for the month if it is due and
// not booked yet. It reports whether a record was created.
func (l *Ledger) EnsureSalary(ctx context.Context, month types.Month) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.ensureSalary(ctx, month)
}

func (l *Ledger) ensureSalary(ctx context.Context, month types.Month) (bool, error) {
	if !recurrence.SalaryDue(l.settings, month, l.now()) {
		return false, nil
	}

	for _, tx := range l.transactions {
		if tx.AutoSalary && tx.SalaryMonth != nil && tx.SalaryMonth.Equal(month) {
			return false, nil
		}
	}

	created, err := l.store.CreateTransactions(ctx, l.owner, []models.Transaction{recurrence.SalaryTransaction(l.owner, l.settings, month)})
	if errors.Is(err, models.ErrSalaryAlreadyBooked) {
		// Booked by another process since the cache was loaded
		return false, l.reload(ctx)
	} else if err != nil {
		return false, err
	}

	l.transactions = append(l.transactions, created...)
	l.sortTransactions()
	l.invalidate()
	l.publish(ctx, events.SalaryInjected, created[0].ID)
	log.Info().Str("owner", l.owner.String()).Str("month", month.String()).Msg("salary booked")

	return true, nil
}

// Report returns the report of a month after booking a due salary.
func (l *Ledger) Report(ctx context.Context, month types.Month) (report.Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.ensureSalary(ctx, month); err != nil {
		return report.Report{}, err
	}

	now := l.now()
	key := reportKey{month: month.String(), hour: now.Unix() / 3600}
	if r, ok := l.reports[key]; ok {
		return r, nil
	}

	r := report.Build(l.transactions, month, now)
	l.reports[key] = r
	return r, nil
}

// Categories returns the owner's categories.
func (l *Ledger) Categories() []models.Category {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]models.Category(nil), l.categories...)
}

func (l *Ledger) categoryNames() []string {
	names := make([]string, 0, len(l.categories))
	for _, c := range l.categories {
		names = append(names, c.Name)
	}

	return names
}

func (l *Ledger) AddCategory(ctx context.Context, name string) (models.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	created, err := l.store.CreateCategories(ctx, l.owner, []string{name})
	if err != nil {
		return models.Category{}, err
	}

	l.categories = append(l.categories, created[0])
	return created[0], nil
}

// DeleteCategory removes a category. Transactions keep their category text.
func (l *Ledger) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.DeleteCategory(ctx, l.owner, id); err != nil {
		return err
	}

	for i, c := range l.categories {
		if c.ID == id {
			l.categories = append(l.categories[:i], l.categories[i+1:]...)
			break
		}
	}

	return nil
}

// Salary returns the salary settings.
func (l *Ledger) Salary() models.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.settings
}

// SaveSalary stores the salary settings and books the current month's
// salary if it is now due.
func (l *Ledger) SaveSalary(ctx context.Context, enabled bool, amount decimal.Decimal, day int) (models.Settings, error) {
	settings := models.Settings{
		OwnerID:       l.owner,
		SalaryEnabled: enabled,
		SalaryAmount:  amount,
		SalaryDay:     day,
	}

	if err := settings.Validate(); err != nil {
		return models.Settings{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	saved, err := l.store.SaveSettings(ctx, l.owner, settings)
	if err != nil {
		return models.Settings{}, err
	}
	l.settings = saved

	if _, err := l.ensureSalary(ctx, types.MonthOf(l.now())); err != nil {
		return models.Settings{}, err
	}

	return saved, nil
}
