package models

import (
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind is the direction of a transaction.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single income or expense entry of an owner.
//
// Members of a series carry InstallmentCurrent and InstallmentTotal.
// Auto-salary records carry the month they were booked for in SalaryMonth,
// at most one exists per owner and month.
type Transaction struct {
	DefaultModel
	OwnerID            uuid.UUID       `json:"ownerId" gorm:"type:uuid;index;uniqueIndex:idx_transaction_owner_salary_month,priority:1" example:"0bb4d0b6-2c08-4e1c-8d4a-8a51ec0ab4a1"`
	Description        string          `json:"description" example:"Aluguel (2/3)"`
	Amount             decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"1000"`
	Kind               Kind            `json:"type" example:"expense"`
	Category           string          `json:"category" example:"Habitação"`
	Date               time.Time       `json:"date" gorm:"index" example:"2024-02-29T12:00:00Z"`
	DueDate            *time.Time      `json:"dueDate" example:"2024-02-29T12:00:00Z"`
	Paid               bool            `json:"paid" gorm:"default:false" example:"false"`
	InstallmentCurrent *int            `json:"installmentCurrent" example:"2"`
	InstallmentTotal   *int            `json:"installmentTotal" example:"3"`
	AutoSalary         bool            `json:"isAutoSalary" gorm:"default:false" example:"false"`
	SalaryMonth        *types.Month    `json:"salaryMonth,omitempty" gorm:"uniqueIndex:idx_transaction_owner_salary_month,priority:2" swaggertype:"string" example:"2024-02"`
}

// IsSeries reports whether the transaction belongs to an installment or fixed series.
func (t Transaction) IsSeries() bool {
	return t.InstallmentTotal != nil
}

// Overdue reports whether an unpaid expense is past its due date.
func (t Transaction) Overdue(now time.Time) bool {
	return t.Kind == KindExpense && !t.Paid && t.DueDate != nil && t.DueDate.Before(now)
}

// Validate checks the invariants every stored transaction must hold.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if !t.Kind.Valid() {
		return ErrInvalidKind
	}

	if (t.InstallmentCurrent == nil) != (t.InstallmentTotal == nil) {
		return ErrInvalidSeries
	}

	if t.InstallmentTotal != nil && (*t.InstallmentCurrent < 1 || *t.InstallmentCurrent > *t.InstallmentTotal) {
		return ErrInvalidSeries
	}

	return nil
}

func (t *Transaction) BeforeSave(_ *gorm.DB) error {
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	t.Date = t.Date.UTC()

	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}

	return t.Validate()
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
func (t *Transaction) AfterFind(tx *gorm.DB) error {
	t.Date = t.Date.In(time.UTC)

	if t.DueDate != nil {
		d := t.DueDate.In(time.UTC)
		t.DueDate = &d
	}

	return t.DefaultModel.AfterFind(tx)
}
