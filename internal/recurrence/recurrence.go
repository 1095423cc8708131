// Package recurrence expands a transaction template into the dated records of
// an installment or fixed series and decides when the automatic salary is due.
package recurrence

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode selects how a template is expanded.
type Mode string

const (
	ModeNone         Mode = "none"
	ModeInstallments Mode = "installments"
	ModeFixed        Mode = "fixed"
)

const (
	// DefaultInstallments is used when an installment series has no count.
	DefaultInstallments = 2

	// DefaultFixedCount is the number of months a fixed series covers
	// when no count is given.
	DefaultFixedCount = 12

	// MaxCount bounds the length of any series.
	MaxCount = 360

	// FixedMarker is appended to the description of fixed series members.
	FixedMarker = "(Fixo)"
)

var (
	ErrInvalidMode  = errors.New("the recurrence mode must be one of 'none', 'installments' or 'fixed'")
	ErrInvalidCount = fmt.Errorf("installment series need at least 2 records, fixed series at least 1, and no series may be longer than %d", MaxCount)
)

var suffixPattern = regexp.MustCompile(`\s\(\d+/\d+\)$|\s\(Fixo\)$`)

// Policy describes how many records to generate.
type Policy struct {
	Mode  Mode `json:"mode" example:"installments"`
	Count int  `json:"count" example:"3"`
}

// Template holds the user-entered fields shared by every generated record.
type Template struct {
	OwnerID     uuid.UUID
	Description string
	Amount      decimal.Decimal
	Kind        models.Kind
	Category    string
}

// normalize applies defaults and validates the policy.
func (p Policy) normalize() (Policy, error) {
	if p.Mode == "" {
		p.Mode = ModeNone
	}

	switch p.Mode {
	case ModeNone:
		p.Count = 1
	case ModeInstallments:
		if p.Count == 0 {
			p.Count = DefaultInstallments
		}
		if p.Count < 2 || p.Count > MaxCount {
			return p, ErrInvalidCount
		}
	case ModeFixed:
		if p.Count == 0 {
			p.Count = DefaultFixedCount
		}
		if p.Count < 1 || p.Count > MaxCount {
			return p, ErrInvalidCount
		}
	default:
		return p, ErrInvalidMode
	}

	return p, nil
}

// GenerateSeries expands the template into the records to persist.
//
// Record i (zero based) is dated AddMonths(baseDate, i). Nothing is written,
// so validation errors surface before any store call.
func GenerateSeries(template Template, baseDate time.Time, policy Policy) ([]models.Transaction, error) {
	base := StripSuffix(template.Description)
	if base == "" {
		return nil, models.ErrEmptyDescription
	}

	if !template.Amount.IsPositive() {
		return nil, models.ErrAmountNotPositive
	}

	if !template.Kind.Valid() {
		return nil, models.ErrInvalidKind
	}

	policy, err := policy.normalize()
	if err != nil {
		return nil, err
	}

	records := make([]models.Transaction, 0, policy.Count)
	for i := 0; i < policy.Count; i++ {
		date := AddMonths(baseDate, i)
		due := date

		tx := models.Transaction{
			OwnerID:     template.OwnerID,
			Description: base,
			Amount:      template.Amount,
			Kind:        template.Kind,
			Category:    strings.TrimSpace(template.Category),
			Date:        date,
			DueDate:     &due,
		}

		if policy.Mode != ModeNone {
			current, total := i+1, policy.Count
			tx.InstallmentCurrent = &current
			tx.InstallmentTotal = &total
		}

		switch policy.Mode {
		case ModeInstallments:
			tx.Description = InstallmentSuffix(base, i+1, policy.Count)
		case ModeFixed:
			tx.Description = FixedSuffix(base)
		}

		records = append(records, tx)
	}

	return records, nil
}

// AddMonths adds k calendar months to t. When the day of t does not exist in
// the target month, the result is the last day of the target month.
// The time of day and location are kept.
func AddMonths(t time.Time, k int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(k), 1, hour, min, sec, t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// StripSuffix removes a trailing series suffix, " (i/n)" or " (Fixo)".
func StripSuffix(description string) string {
	return strings.TrimSpace(suffixPattern.ReplaceAllString(strings.TrimSpace(description), ""))
}

// IsFixed reports whether the description carries the fixed series marker.
func IsFixed(description string) bool {
	return strings.HasSuffix(strings.TrimSpace(description), " "+FixedMarker)
}

func InstallmentSuffix(base string, current, total int) string {
	return fmt.Sprintf("%s (%d/%d)", base, current, total)
}

func FixedSuffix(base string) string {
	return fmt.Sprintf("%s %s", base, FixedMarker)
}

// Resuffix rebuilds the description of a series member from a new base.
// Records outside a series get the plain base.
func Resuffix(tx models.Transaction, base string) string {
	base = StripSuffix(base)

	switch {
	case !tx.IsSeries():
		return base
	case IsFixed(tx.Description):
		return FixedSuffix(base)
	default:
		return InstallmentSuffix(base, *tx.InstallmentCurrent, *tx.InstallmentTotal)
	}
}
