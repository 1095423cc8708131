package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultSalaryDay is the salary day used until the owner configures one.
const DefaultSalaryDay = 5

// Settings holds the per-owner salary configuration.
type Settings struct {
	OwnerID uuid.UUID `json:"ownerId" gorm:"type:uuid;primaryKey" example:"0bb4d0b6-2c08-4e1c-8d4a-8a51ec0ab4a1"`
	Timestamps
	SalaryEnabled bool            `json:"salaryEnabled" gorm:"default:false" example:"true"`
	SalaryAmount  decimal.Decimal `json:"salaryAmount" gorm:"type:DECIMAL(20,8)" example:"2500"`
	SalaryDay     int             `json:"salaryDay" example:"5"`
}

// DefaultSettings returns the settings of an owner that never saved any.
func DefaultSettings(owner uuid.UUID) Settings {
	return Settings{
		OwnerID:      owner,
		SalaryAmount: decimal.Zero,
		SalaryDay:    DefaultSalaryDay,
	}
}

func (s Settings) Validate() error {
	if s.SalaryDay < 1 || s.SalaryDay > 31 {
		return ErrSalaryDayInvalid
	}

	if s.SalaryAmount.IsNegative() {
		return ErrSalaryAmountNegative
	}

	return nil
}

func (s *Settings) BeforeSave(_ *gorm.DB) error {
	return s.Validate()
}
