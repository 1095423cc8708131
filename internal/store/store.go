// Package store persists an owner's transactions, categories and settings
// with gorm. Every query is scoped to a single owner.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/fincontrol/backend/internal/cascade"
	"github.com/fincontrol/backend/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) owned(ctx context.Context, owner uuid.UUID) *gorm.DB {
	return s.db.WithContext(ctx).Where("owner_id = ?", owner)
}

// Transactions returns all transactions of the owner, newest first.
func (s *Store) Transactions(ctx context.Context, owner uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.owned(ctx, owner).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// CreateTransactions inserts all records in one database transaction.
func (s *Store) CreateTransactions(ctx context.Context, owner uuid.UUID, transactions []models.Transaction) ([]models.Transaction, error) {
	for i := range transactions {
		transactions[i].OwnerID = owner
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&transactions).Error
	})
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (s *Store) Transaction(ctx context.Context, owner, id uuid.UUID) (models.Transaction, error) {
	var transaction models.Transaction
	err := s.owned(ctx, owner).First(&transaction, "id = ?", id).Error
	return transaction, err
}

// SaveTransaction writes the user-editable fields of an existing transaction.
func (s *Store) SaveTransaction(ctx context.Context, owner uuid.UUID, transaction models.Transaction) (models.Transaction, error) {
	if _, err := s.Transaction(ctx, owner, transaction.ID); err != nil {
		return models.Transaction{}, err
	}

	transaction.OwnerID = owner
	err := s.db.WithContext(ctx).
		Select("description", "amount", "kind", "category", "date", "due_date", "paid", "updated_at").
		Save(&transaction).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return s.Transaction(ctx, owner, transaction.ID)
}

// SeriesCandidates returns the owner's series members of the given kind
// dated strictly after the given instant.
func (s *Store) SeriesCandidates(ctx context.Context, owner uuid.UUID, kind models.Kind, after time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.owned(ctx, owner).
		Where("kind = ? AND installment_total IS NOT NULL AND date > ?", kind, after.UTC()).
		Order("date ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

// ApplyUpdates writes a cascade plan.
//
// Updates that share description, amount and category are written with one
// statement. The remaining statements run concurrently and are awaited
// together. A failure does not roll back statements that already succeeded.
func (s *Store) ApplyUpdates(ctx context.Context, owner uuid.UUID, updates []cascade.Update) error {
	type batch struct {
		update cascade.Update
		ids    []uuid.UUID
	}

	var batches []*batch
	byValues := map[string]*batch{}
	for _, u := range updates {
		key := fmt.Sprintf("%s\x00%s\x00%s", u.Description, u.Amount.String(), u.Category)
		b, ok := byValues[key]
		if !ok {
			b = &batch{update: u}
			byValues[key] = b
			batches = append(batches, b)
		}
		b.ids = append(b.ids, u.ID)
	}

	now := time.Now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	for _, b := range batches {
		g.Go(func() error {
			err := s.db.WithContext(gctx).
				Session(&gorm.Session{SkipHooks: true}).
				Model(&models.Transaction{}).
				Where("owner_id = ? AND id IN ?", owner, b.ids).
				Updates(map[string]any{
					"description": b.update.Description,
					"amount":      b.update.Amount,
					"category":    b.update.Category,
					"updated_at":  now,
				}).Error
			if err != nil {
				return fmt.Errorf("updating %d series members: %w", len(b.ids), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("owner", owner.String()).Int("updates", len(updates)).Msg("cascade")
		return err
	}

	return nil
}

func (s *Store) SetPaid(ctx context.Context, owner, id uuid.UUID, paid bool) (models.Transaction, error) {
	transaction, err := s.Transaction(ctx, owner, id)
	if err != nil {
		return models.Transaction{}, err
	}

	err = s.db.WithContext(ctx).Model(&transaction).Update("paid", paid).Error
	if err != nil {
		return models.Transaction{}, err
	}

	return s.Transaction(ctx, owner, id)
}

func (s *Store) DeleteTransaction(ctx context.Context, owner, id uuid.UUID) error {
	transaction, err := s.Transaction(ctx, owner, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&transaction).Error
}

func (s *Store) Categories(ctx context.Context, owner uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.owned(ctx, owner).Order("created_at ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (s *Store) CreateCategories(ctx context.Context, owner uuid.UUID, names []string) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{OwnerID: owner, Name: name})
	}

	err := s.db.WithContext(ctx).Create(&categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (s *Store) DeleteCategory(ctx context.Context, owner, id uuid.UUID) error {
	var category models.Category
	err := s.owned(ctx, owner).First(&category, "id = ?", id).Error
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Delete(&category).Error
}

// Settings returns the owner's settings, or the defaults if none were saved.
func (s *Store) Settings(ctx context.Context, owner uuid.UUID) (models.Settings, error) {
	var settings []models.Settings
	err := s.owned(ctx, owner).Limit(1).Find(&settings).Error
	if err != nil {
		return models.Settings{}, err
	}

	if len(settings) == 0 {
		return models.DefaultSettings(owner), nil
	}

	return settings[0], nil
}

// SaveSettings creates or replaces the owner's settings.
func (s *Store) SaveSettings(ctx context.Context, owner uuid.UUID, settings models.Settings) (models.Settings, error) {
	settings.OwnerID = owner

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"salary_enabled", "salary_amount", "salary_day", "updated_at"}),
	}).Create(&settings).Error
	if err != nil {
		return models.Settings{}, err
	}

	return s.Settings(ctx, owner)
}

// UserByEmail looks up an account by its normalized email address.
func (s *Store) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	return user, err
}
