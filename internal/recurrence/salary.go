package recurrence

import (
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/types"
	"github.com/google/uuid"
)

const (
	SalaryDescription = "Salário Mensal (Automático)"
	SalaryCategory    = "Salário"
)

// SalaryDue reports whether the automatic salary should exist for the viewed
// month. It is due for the current month once the salary day has been reached
// and for every future month. Past months are never back-filled.
func SalaryDue(settings models.Settings, viewed types.Month, now time.Time) bool {
	if !settings.SalaryEnabled || !settings.SalaryAmount.IsPositive() {
		return false
	}

	current := types.MonthOf(now)
	if viewed.Equal(current) {
		return now.UTC().Day() >= settings.SalaryDay
	}

	return viewed.After(current)
}

// SalaryTransaction builds the automatic salary record for a month.
// It is dated at noon on the salary day, clamped to the end of short months.
func SalaryTransaction(owner uuid.UUID, settings models.Settings, month types.Month) models.Transaction {
	date := month.Day(settings.SalaryDay)

	return models.Transaction{
		OwnerID:     owner,
		Description: SalaryDescription,
		Amount:      settings.SalaryAmount,
		Kind:        models.KindIncome,
		Category:    SalaryCategory,
		Date:        date,
		DueDate:     &date,
		AutoSalary:  true,
		SalaryMonth: &month,
	}
}
