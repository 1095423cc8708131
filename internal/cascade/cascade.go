// Package cascade plans how an edit to one member of a series propagates to
// the later members of the same series.
//
// A candidate belongs to the edited record's series when it has the same
// owner and kind, is dated strictly after the edited record's original date,
// carries series metadata of the same nature (fixed or installment) and has
// the same base description once the series suffix is stripped. Installment
// candidates must also have the same total and a higher index.
package cascade

import (
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/recurrence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fields are the user-editable fields of a transaction.
type Fields struct {
	Description string
	Amount      decimal.Decimal
	Kind        models.Kind
	Category    string
	Date        time.Time
}

// FieldsOf returns the editable fields of a transaction, with the
// description reduced to its base.
func FieldsOf(tx models.Transaction) Fields {
	return Fields{
		Description: recurrence.StripSuffix(tx.Description),
		Amount:      tx.Amount,
		Kind:        tx.Kind,
		Category:    tx.Category,
		Date:        tx.Date,
	}
}

// Update is the change applied to one later member of a series.
type Update struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	Category    string
}

// Apply returns the edited record with the new fields. The description keeps
// the record's own series suffix and the due date follows the new date.
func Apply(tx models.Transaction, f Fields) models.Transaction {
	tx.Description = recurrence.Resuffix(tx, f.Description)
	tx.Amount = f.Amount
	tx.Kind = f.Kind
	tx.Category = f.Category
	tx.Date = f.Date

	due := f.Date
	tx.DueDate = &due

	return tx
}

// Matches reports whether candidate is a later member of the same series as
// original. original must be the edited record as it was before the edit.
func Matches(original, candidate models.Transaction) bool {
	if !original.IsSeries() || !candidate.IsSeries() {
		return false
	}

	if candidate.ID == original.ID || candidate.OwnerID != original.OwnerID || candidate.Kind != original.Kind {
		return false
	}

	if !candidate.Date.After(original.Date) {
		return false
	}

	if recurrence.IsFixed(candidate.Description) != recurrence.IsFixed(original.Description) {
		return false
	}

	if recurrence.StripSuffix(candidate.Description) != recurrence.StripSuffix(original.Description) {
		return false
	}

	if recurrence.IsFixed(original.Description) {
		return true
	}

	return *candidate.InstallmentTotal == *original.InstallmentTotal &&
		*candidate.InstallmentCurrent > *original.InstallmentCurrent
}

// Plan returns the updates to apply to the later members of original's
// series. Records that are not series members never cascade.
func Plan(original models.Transaction, f Fields, candidates []models.Transaction) []Update {
	if !original.IsSeries() {
		return nil
	}

	var updates []Update
	for _, c := range candidates {
		if !Matches(original, c) {
			continue
		}

		updates = append(updates, Update{
			ID:          c.ID,
			Description: recurrence.Resuffix(c, f.Description),
			Amount:      f.Amount,
			Category:    f.Category,
		})
	}

	return updates
}
